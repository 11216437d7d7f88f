package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/smazurov/warpcore/internal/config"
	"github.com/smazurov/warpcore/internal/engine"
	"github.com/smazurov/warpcore/internal/logging"
	"github.com/smazurov/warpcore/internal/params"
	"github.com/smazurov/warpcore/internal/pattern"
	"github.com/smazurov/warpcore/internal/strip"
	"github.com/spf13/cobra"
)

// Step sizes for one key press.
const (
	colorStep = 8
	warpStep  = 1
)

// Preview is the engine surface the key loop drives.
type Preview interface {
	Update(source string, changes ...engine.Change) params.Status
	Status() params.Status
}

// CreatePreviewCmd creates the preview command. section returns the
// configured [strip] section once flags and the config file are parsed.
func CreatePreviewCmd(section func() config.Strip) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Render the warp core in the terminal",
		Long: `Runs the engine into a terminal strip with one row per zone. ` +
			`Keys: h/H hue, s/S saturation, b/B brightness, w/W warp factor, 1-5 pattern, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := section()
			layout, err := s.Layout()
			if err != nil {
				return err
			}

			// The screen owns stdout.
			logging.SetOutput(io.Discard)
			defer logging.SetOutput(nil)
			logger := logging.GetLogger("preview")

			term, err := strip.NewTerminal(layout)
			if err != nil {
				return err
			}
			defer term.Close()

			eng, err := engine.New(engine.Options{
				Layout:       layout,
				Strip:        term,
				Output:       s.Output(),
				MaxRefreshHz: s.RefreshHz(),
				Logger:       logger,
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- eng.Run(ctx) }()

			term.SetStatus(StatusLine(eng.Status()))
			RunPreviewInput(term.Screen(), eng, term.SetStatus)

			cancel()
			return <-done
		},
	}
}

// RunPreviewInput reads keys from screen until quit and applies them to p.
func RunPreviewInput(screen tcell.Screen, p Preview, status func(string)) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return
			case tcell.KeyRune:
				change, quit, ok := KeyChange(ev.Rune(), p.Status())
				if quit {
					return
				}
				if ok {
					status(StatusLine(p.Update(engine.SourcePreview, change)))
				}
			}
		}
	}
}

// KeyChange maps a key to a parameter write. Hue wraps; the other fields
// are clamped by the store.
func KeyChange(r rune, s params.Status) (change engine.Change, quit, ok bool) {
	switch r {
	case 'q', 'Q':
		return engine.Change{}, true, false
	case 'h':
		return engine.Change{Name: params.Hue, Value: (s.Hue + 256 - colorStep) % 256}, false, true
	case 'H':
		return engine.Change{Name: params.Hue, Value: (s.Hue + colorStep) % 256}, false, true
	case 's':
		return engine.Change{Name: params.Saturation, Value: s.Saturation - colorStep}, false, true
	case 'S':
		return engine.Change{Name: params.Saturation, Value: s.Saturation + colorStep}, false, true
	case 'b':
		return engine.Change{Name: params.Brightness, Value: s.Brightness - colorStep}, false, true
	case 'B':
		return engine.Change{Name: params.Brightness, Value: s.Brightness + colorStep}, false, true
	case 'w':
		return engine.Change{Name: params.WarpFactor, Value: s.WarpFactor - warpStep}, false, true
	case 'W':
		return engine.Change{Name: params.WarpFactor, Value: s.WarpFactor + warpStep}, false, true
	}
	if r >= '1' && r <= '0'+params.MaxPattern {
		return engine.Change{Name: params.Pattern, Value: int(r - '0')}, false, true
	}
	return engine.Change{}, false, false
}

// StatusLine summarizes s for the line under the strip.
func StatusLine(s params.Status) string {
	return fmt.Sprintf("pattern %d %-11s warp %d  hue %3d  sat %3d  bright %3d   [q]uit",
		s.Pattern, pattern.ID(s.Pattern).String(), s.WarpFactor, s.Hue, s.Saturation, s.Brightness)
}
