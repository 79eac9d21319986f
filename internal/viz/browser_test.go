package viz

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MBP16/SIR-Modeling/internal/compute"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

func baseline(t *testing.T) sim.Trajectory {
	t.Helper()
	cols, err := compute.NewCPUBackend().Model(context.Background(), sim.DefaultParams())
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	traj, err := cols.Trajectory()
	if err != nil {
		t.Fatalf("trajectory: %v", err)
	}
	return traj
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(b Browser, msgs ...tea.Msg) Browser {
	for _, msg := range msgs {
		m, _ := b.Update(msg)
		b = m.(Browser)
	}
	return b
}

func TestBrowserNavigation(t *testing.T) {
	b := NewBrowser("baseline", baseline(t))

	b = press(b, key("j"), key("j"), key("k"))
	if b.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", b.Cursor())
	}

	b = press(b, key("k"), key("k"))
	if b.Cursor() != 0 {
		t.Errorf("cursor should clamp at 0, got %d", b.Cursor())
	}

	b = press(b, key("G"))
	if b.Cursor() != 200 {
		t.Errorf("end: cursor = %d, want 200", b.Cursor())
	}
	b = press(b, key("j"))
	if b.Cursor() != 200 {
		t.Errorf("cursor should clamp at last entry, got %d", b.Cursor())
	}

	b = press(b, tea.KeyMsg{Type: tea.KeyHome})
	if b.Cursor() != 0 {
		t.Errorf("home: cursor = %d", b.Cursor())
	}
}

func TestBrowserPaging(t *testing.T) {
	b := press(NewBrowser("baseline", baseline(t)), tea.WindowSizeMsg{Width: 100, Height: 20})
	page := 20 - chrome

	b = press(b, key("f"))
	if b.Cursor() != page {
		t.Errorf("page down: cursor = %d, want %d", b.Cursor(), page)
	}
	b = press(b, key("b"))
	if b.Cursor() != 0 {
		t.Errorf("page up: cursor = %d", b.Cursor())
	}
}

func TestBrowserPeak(t *testing.T) {
	traj := baseline(t)
	b := press(NewBrowser("baseline", traj), key("p"))

	s := traj.Series()
	for k, v := range s.I {
		if v > s.I[b.Cursor()] {
			t.Fatalf("entry %d has I=%v above cursor entry", k, v)
		}
	}
	if b.Cursor() == 0 {
		t.Error("peak should not be the initial entry for the baseline run")
	}
}

func TestBrowserColumnAndTheme(t *testing.T) {
	b := NewBrowser("baseline", baseline(t))
	if b.Column() != "I" {
		t.Fatalf("default column = %s", b.Column())
	}

	b = press(b, key("c"), key("c"))
	if b.Column() != "S" {
		t.Errorf("column = %s, want S", b.Column())
	}

	b = press(b, key("t"))
	if b.Theme().Name != "retro" {
		t.Errorf("theme = %s, want retro", b.Theme().Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
	if GetTheme("missing").Name != "clinical" {
		t.Error("unknown theme should fall back to clinical")
	}
}

func TestBrowserQuit(t *testing.T) {
	b := NewBrowser("baseline", baseline(t))
	for _, k := range []tea.Msg{key("q"), tea.KeyMsg{Type: tea.KeyCtrlC}, tea.KeyMsg{Type: tea.KeyEsc}} {
		_, cmd := b.Update(k)
		if cmd == nil {
			t.Fatalf("%v: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: expected tea.QuitMsg", k)
		}
	}
}

func TestBrowserView(t *testing.T) {
	b := press(NewBrowser("baseline", baseline(t)), tea.WindowSizeMsg{Width: 120, Height: 30})
	view := b.View()

	for _, want := range []string{"baseline", "dSdt", "None", "299", "peak I", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSparkline(t *testing.T) {
	st := newStyles(ThemeMinimal)
	out := Sparkline([]float64{0, 1, 2, 3}, 4, 0, st.label, st.cursor)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("unexpected sparkline %q", out)
	}
	if Sparkline(nil, 3, 0, st.label, st.cursor) != "───" {
		t.Error("empty sparkline should be a rule")
	}
}
