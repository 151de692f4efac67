package shoptui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Adnanskuyy/ShoppingABTest/participant"
	"github.com/Adnanskuyy/ShoppingABTest/scene"
)

func useASCIIRenderer(t *testing.T) {
	originalProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(originalProfile)
	})
}

func newTestModel(t *testing.T, variant string, opts Options) model {
	t.Helper()
	useASCIIRenderer(t)
	s := scene.New(scene.Options{
		Source:   participant.StaticSource{ParticipantID: "TUI1", Variant: variant},
		Duration: 10 * time.Second,
	})
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(s.Dispose)
	m := newModel(s, opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	return updated.(model)
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		updated, _ := m.Update(msg)
		m = updated.(model)
	}
	return m
}

func TestInitialFocusShowsPrompt(t *testing.T) {
	m := newTestModel(t, "A", Options{})

	view := m.View()
	if !strings.Contains(view, "[E] Inspect Cube") {
		t.Fatalf("expected prompt for first product, got:\n%s", view)
	}
	if !strings.Contains(view, "00:10") || !strings.Contains(view, "TUI1") {
		t.Fatalf("expected header with clock and participant, got:\n%s", view)
	}
	if !strings.Contains(view, "Trolley (0)") {
		t.Fatalf("expected trolley pane for variant A, got:\n%s", view)
	}
}

func TestVariantBHasNoTrolley(t *testing.T) {
	m := newTestModel(t, "B", Options{})

	if strings.Contains(m.View(), "Trolley") {
		t.Fatal("expected no trolley for variant B")
	}
	m = press(t, m, "t")
	if strings.Contains(m.View(), "Trolley") {
		t.Fatal("expected toggle to keep the trolley hidden for variant B")
	}
}

func TestInspectBuyAndWalk(t *testing.T) {
	m := newTestModel(t, "A", Options{})

	m = press(t, m, "e")
	view := m.View()
	if !strings.Contains(view, "Price: $5") || !strings.Contains(view, "Add to cart") {
		t.Fatalf("expected product panel, got:\n%s", view)
	}

	m = press(t, m, "enter")
	if m.scene.Controller.TotalItems() != 1 {
		t.Fatalf("expected one item, got %d", m.scene.Controller.TotalItems())
	}
	view = m.View()
	if !strings.Contains(view, "Cube has been added to cart.") || !strings.Contains(view, "Cube x1") {
		t.Fatalf("expected notification and trolley line, got:\n%s", view)
	}
	if !strings.Contains(view, "[E] Inspect Cube") {
		t.Fatalf("expected prompt to return after the panel closes, got:\n%s", view)
	}

	m = press(t, m, "down")
	if !strings.Contains(m.View(), "[E] Inspect Sphere") {
		t.Fatalf("expected focus to follow the shelf, got:\n%s", m.View())
	}

	m = press(t, m, "t")
	if strings.Contains(m.View(), "Trolley") {
		t.Fatal("expected trolley hidden after toggle")
	}
}

func TestFinishFlow(t *testing.T) {
	m := newTestModel(t, "B", Options{})

	m = press(t, m, "q")
	if !strings.Contains(m.View(), "Finish shopping?") {
		t.Fatalf("expected confirmation, got:\n%s", m.View())
	}
	m = press(t, m, "n")
	if m.scene.Ended() {
		t.Fatal("expected decline to keep the session running")
	}
	m = press(t, m, "q", "y")
	if !m.scene.Ended() {
		t.Fatal("expected session ended")
	}
	if view := m.View(); !strings.Contains(view, "TUI1-0-0") {
		t.Fatalf("expected completion code, got:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command after the end screen")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestTicksAdvanceTheClock(t *testing.T) {
	m := newTestModel(t, "A", Options{})
	start := time.Date(2026, 1, 20, 10, 30, 0, 0, time.UTC)

	updated, _ := m.Update(tickMsg(start))
	m = updated.(model)
	updated, _ = m.Update(tickMsg(start.Add(4 * time.Second)))
	m = updated.(model)

	if got := m.scene.Controller.Remaining(); got != 6*time.Second {
		t.Fatalf("expected 6s remaining, got %s", got)
	}

	updated, _ = m.Update(tickMsg(start.Add(20 * time.Second)))
	m = updated.(model)
	if !m.scene.Ended() {
		t.Fatal("expected expiry")
	}
	if _, cmd := m.Update(tickMsg(start.Add(21 * time.Second))); cmd != nil {
		t.Fatal("expected ticking to stop after the end")
	}
}

func TestBriefingPausesClock(t *testing.T) {
	m := newTestModel(t, "A", Options{Briefing: Briefing(10*time.Second, true)})
	start := time.Date(2026, 1, 20, 10, 30, 0, 0, time.UTC)

	if !strings.Contains(m.View(), "Welcome to the shop") {
		t.Fatalf("expected briefing, got:\n%s", m.View())
	}
	updated, _ := m.Update(tickMsg(start))
	m = updated.(model)
	updated, _ = m.Update(tickMsg(start.Add(3 * time.Second)))
	m = updated.(model)
	if got := m.scene.Controller.Remaining(); got != 10*time.Second {
		t.Fatalf("expected clock paused during briefing, got %s", got)
	}

	m = press(t, m, "enter")
	if strings.Contains(m.View(), "Welcome to the shop") {
		t.Fatal("expected briefing dismissed")
	}
}

func TestBriefingMentionsTrolleyOnlyWhenShown(t *testing.T) {
	if !strings.Contains(Briefing(3*time.Minute, true), "trolley") {
		t.Fatal("expected trolley instructions")
	}
	if strings.Contains(Briefing(3*time.Minute, false), "trolley") {
		t.Fatal("expected no trolley instructions")
	}
	if !strings.Contains(Briefing(3*time.Minute, false), "03:00") {
		t.Fatal("expected duration in briefing")
	}
}

func TestReopenedBriefingKeepsClockRunning(t *testing.T) {
	m := newTestModel(t, "A", Options{Briefing: Briefing(10*time.Second, true)})
	start := time.Date(2026, 1, 20, 10, 30, 0, 0, time.UTC)

	m = press(t, m, "enter")
	updated, _ := m.Update(tickMsg(start))
	m = updated.(model)
	updated, _ = m.Update(tickMsg(start.Add(2 * time.Second)))
	m = updated.(model)

	m = press(t, m, "?")
	if !strings.Contains(m.View(), "Welcome to the shop") {
		t.Fatalf("expected briefing reopened, got:\n%s", m.View())
	}
	updated, _ = m.Update(tickMsg(start.Add(5 * time.Second)))
	m = updated.(model)
	if got := m.scene.Controller.Remaining(); got != 5*time.Second {
		t.Fatalf("expected 5s remaining while help is open, got %s", got)
	}
}
