package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/smazurov/warpcore/internal/config"
	"github.com/smazurov/warpcore/internal/zone"
	"github.com/spf13/cobra"
)

// CreateLayoutCmd creates the layout command. strip returns the
// configured [strip] section once flags and the config file are parsed.
func CreateLayoutCmd(strip func() config.Strip) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the LED index map of the configured layout",
		Long: `Prints which buffer indices the chase lights on the top and bottom runs for every pulse phase, ` +
			`plus the reaction chamber cells. Use it to check strip wiring against the zone counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layout, err := strip().Layout()
			if err != nil {
				return err
			}
			return WriteLayout(cmd.OutOrStdout(), layout)
		},
	}
}

// WriteLayout prints the index map of l.
func WriteLayout(w io.Writer, l zone.Layout) error {
	var b strings.Builder

	fmt.Fprintf(&b, "layout: %s\n", l)
	fmt.Fprintf(&b, "leds: %d  pulse length: %d  chase extent: %d  bottom offset: %d\n",
		l.Total(), l.PulseLength(), l.ChaseExtent(), l.Offset())
	fmt.Fprintf(&b, "reaction: %s\n\n", joinInts(l.ReactionIndices()))

	for phase := range l.PulseLength() {
		var top, bottom []int
		for chase := 0; chase < l.ChaseExtent(); chase += l.PulseLength() {
			if idx, ok := l.TopIndex(phase, chase); ok {
				top = append(top, idx)
			}
			if idx, ok := l.BottomIndex(phase, chase); ok {
				bottom = append(bottom, idx)
			}
		}
		fmt.Fprintf(&b, "phase %2d  top: %-16s bottom: %s\n", phase, joinInts(top), joinInts(bottom))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
