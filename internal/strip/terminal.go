package strip

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/smazurov/warpcore/internal/zone"
)

const (
	terminalLabelWidth = 10
	terminalCell       = '█'
)

// Terminal renders the strip as three rows of colored cells, one row per zone.
type Terminal struct {
	screen tcell.Screen
	layout zone.Layout
	status string
	mu     sync.Mutex
}

// NewTerminal takes over the controlling terminal.
func NewTerminal(layout zone.Layout) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	return NewTerminalOnScreen(screen, layout), nil
}

// NewTerminalOnScreen draws onto an already initialized screen.
func NewTerminalOnScreen(screen tcell.Screen, layout zone.Layout) *Terminal {
	screen.Clear()
	return &Terminal{screen: screen, layout: layout}
}

// Screen exposes the underlying screen for input handling.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// SetStatus sets the line drawn under the strip.
func (t *Terminal) SetStatus(status string) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

// Show draws the frame.
func (t *Terminal) Show(pixels []RGB) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	top, reaction := t.layout.Top(), t.layout.Reaction()
	t.drawRow(0, "top", pixels, 0, top)
	t.drawRow(1, "reaction", pixels, top, top+reaction)
	t.drawRow(2, "bottom", pixels, top+reaction, len(pixels))
	t.drawText(0, 4, t.status, tcell.StyleDefault)

	t.screen.Show()
	return nil
}

func (t *Terminal) drawRow(y int, label string, pixels []RGB, from, to int) {
	t.drawText(0, y, fmt.Sprintf("%-*s", terminalLabelWidth, label), tcell.StyleDefault.Foreground(tcell.ColorGray))
	x := terminalLabelWidth
	for i := from; i < to && i < len(pixels); i++ {
		p := pixels[i]
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B)))
		t.screen.SetContent(x, y, terminalCell, nil, style)
		t.screen.SetContent(x+1, y, terminalCell, nil, style)
		x += 2
	}
}

func (t *Terminal) drawText(x, y int, text string, style tcell.Style) {
	width, _ := t.screen.Size()
	for i := x; i < width; i++ {
		t.screen.SetContent(i, y, ' ', nil, tcell.StyleDefault)
	}
	for _, r := range text {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Len returns the number of pixels in the layout.
func (t *Terminal) Len() int { return t.layout.Total() }

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.screen.Fini()
	return nil
}
