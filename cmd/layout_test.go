package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/smazurov/warpcore/internal/config"
	"github.com/smazurov/warpcore/internal/zone"
)

func TestWriteLayoutDefault(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLayout(&buf, zone.Default()); err != nil {
		t.Fatalf("WriteLayout: %v", err)
	}
	out := buf.String()

	want := []string{
		"layout: top=10 reaction=3 bottom=15 segment=5",
		"leds: 28  pulse length: 10  chase extent: 20  bottom offset: 5",
		"reaction: 10,11,12",
	}
	for _, line := range want {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q\n%s", line, out)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var phases []string
	for _, line := range lines {
		if strings.HasPrefix(line, "phase") {
			phases = append(phases, line)
		}
	}
	if len(phases) != 10 {
		t.Fatalf("got %d phase lines, want 10", len(phases))
	}
	if f := strings.Fields(phases[0]); f[3] != "0,10" || f[5] != "22" {
		t.Errorf("phase 0 = %q", phases[0])
	}
	if f := strings.Fields(phases[3]); f[3] != "3" || f[5] != "19" {
		t.Errorf("phase 3 = %q", phases[3])
	}
}

func TestLayoutCommand(t *testing.T) {
	cmd := CreateLayoutCmd(config.DefaultStrip)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "layout: ") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestLayoutCommandInvalid(t *testing.T) {
	cmd := CreateLayoutCmd(func() config.Strip {
		s := config.DefaultStrip()
		s.SegmentSize = 0
		return s
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for zero segment size")
	}
}

func TestJoinInts(t *testing.T) {
	if got := joinInts(nil); got != "-" {
		t.Errorf("joinInts(nil) = %q", got)
	}
	if got := joinInts([]int{1, 2, 3}); got != "1,2,3" {
		t.Errorf("joinInts = %q", got)
	}
}
