// Package shoptui is the terminal front end of a shopping session.
package shoptui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Adnanskuyy/ShoppingABTest/internal/markdown"
	"github.com/Adnanskuyy/ShoppingABTest/scene"
)

// DefaultTickInterval is how often the session clock advances.
const DefaultTickInterval = 100 * time.Millisecond

// lowTime turns the clock red.
const lowTime = 30 * time.Second

// Options configures Run.
type Options struct {
	TickInterval time.Duration
	// Briefing is markdown shown before the session clock is visible.
	// Empty skips the briefing.
	Briefing string
}

type tickMsg time.Time

type model struct {
	scene    *scene.Scene
	interval time.Duration
	width    int
	height   int
	shelf    list.Model
	briefing viewport.Model
	brief    string
	showing  bool
	started  bool
	cartOpen bool
	lastTick time.Time
	status   string
}

// Run drives s from the terminal until the participant quits after the
// session ends, or ctx is cancelled.
func Run(ctx context.Context, s *scene.Scene, opts Options) error {
	if s == nil {
		return fmt.Errorf("scene is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(s *scene.Scene, opts Options) model {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	m := model{
		scene:    s,
		interval: interval,
		shelf:    newShelf(s.Catalog.Products()),
		briefing: viewport.New(0, 0),
		brief:    opts.Briefing,
		showing:  strings.TrimSpace(opts.Briefing) != "",
		cartOpen: true,
	}
	m.started = !m.showing
	m.lookAtSelection()
	return m
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tickMsg:
		return m.handleTick(time.Time(msg))
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.scene.Ended() {
		return m, nil
	}
	// Only the opening briefing holds the clock; reopening it with ? does not.
	if !m.lastTick.IsZero() && m.started {
		m.scene.Tick(now.Sub(m.lastTick))
	}
	m.lastTick = now
	return m, m.tick()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	m.status = ""

	if m.showing {
		switch key {
		case "enter", " ", "esc":
			m.showing = false
			m.started = true
			return m, nil
		}
		var cmd tea.Cmd
		m.briefing, cmd = m.briefing.Update(msg)
		return m, cmd
	}

	snap := m.scene.Snapshot()
	switch {
	case snap.Result != nil:
		if key == "q" || key == "enter" || key == "esc" {
			return m, tea.Quit
		}
		return m, nil
	case snap.HUD.ConfirmVisible:
		switch key {
		case "y":
			m.scene.ConfirmEnd()
		case "n", "esc":
			m.scene.CancelEnd()
		}
		return m, nil
	case snap.HUD.Panel != nil:
		switch key {
		case "enter", "a":
			m.scene.Buy()
			m.refocus()
		case "c", "esc":
			m.scene.Close()
			m.refocus()
		}
		return m, nil
	}

	switch key {
	case "e":
		if !m.scene.Interact() {
			m.status = "Nothing to inspect here."
		}
		return m, nil
	case "t":
		if snap.ShowTrolley {
			m.cartOpen = !m.cartOpen
		}
		return m, nil
	case "q":
		m.scene.RequestEnd()
		return m, nil
	case "?":
		if strings.TrimSpace(m.brief) != "" {
			m.showing = true
		}
		return m, nil
	}

	before := m.shelf.Index()
	var cmd tea.Cmd
	m.shelf, cmd = m.shelf.Update(msg)
	if m.shelf.Index() != before {
		m.lookAtSelection()
	}
	return m, cmd
}

func (m *model) lookAtSelection() {
	product, ok := selectedProduct(m.shelf)
	if !ok {
		m.scene.LookAway()
		return
	}
	if err := m.scene.Look(product.Name); err != nil {
		m.status = err.Error()
	}
}

// refocus looks away and back so the prompt reappears after a panel closes.
func (m *model) refocus() {
	m.scene.LookAway()
	m.lookAtSelection()
}

func (m *model) resize() {
	leftWidth, _ := splitWidths(m.width)
	contentHeight := max(m.height-4, 1)
	m.shelf.SetSize(max(leftWidth-4, 1), max(contentHeight-2, 1))
	m.briefing.Width = max(m.width-4, 1)
	m.briefing.Height = max(m.height-2, 1)
	m.briefing.SetContent(string(markdown.SafeRender(m.briefing.Width, 0, []byte(m.brief))))
}

func splitWidths(width int) (int, int) {
	left := width * 2 / 5
	left = max(left, 20)
	right := max(width-left, 20)
	return left, right
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading shop..."
	}
	if m.showing {
		return paneActiveStyle.Width(max(m.width-2, 1)).Render(m.briefing.View())
	}

	snap := m.scene.Snapshot()
	header := m.renderHeader(snap)
	if snap.Result != nil {
		return strings.Join([]string{header, m.renderEnd(snap)}, "\n")
	}

	contentHeight := max(m.height-4, 1)
	leftWidth, rightWidth := splitWidths(m.width)
	showCart := snap.ShowTrolley && m.cartOpen
	detailWidth := rightWidth
	cartWidth := 0
	if showCart {
		cartWidth = max(rightWidth/2, 20)
		detailWidth = max(rightWidth-cartWidth, 20)
	}

	panes := []string{
		m.renderPane(m.shelf.View(), leftWidth, contentHeight, snap.HUD.Panel == nil && !snap.HUD.ConfirmVisible),
		m.renderPane(m.renderDetail(snap, detailWidth-4), detailWidth, contentHeight, snap.HUD.Panel != nil || snap.HUD.ConfirmVisible),
	}
	if showCart {
		panes = append(panes, m.renderPane(renderCart(snap), cartWidth, contentHeight, false))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	return strings.Join([]string{header, content, m.renderHelpLine(snap), m.renderStatusLine(snap)}, "\n")
}

func (m model) renderHeader(snap scene.Snapshot) string {
	clock := clockStyle
	if snap.HUD.Remaining <= lowTime {
		clock = clockLow
	}
	title := headerStyle.Render(fmt.Sprintf("Shop  participant %s", snap.ParticipantID))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, clock.Render(snap.HUD.Clock))
}

func (m model) renderPane(content string, width, height int, active bool) string {
	style := paneStyle
	if active {
		style = paneActiveStyle
	}
	return style.Width(max(width-2, 1)).Height(max(height-2, 1)).Render(content)
}

func (m model) renderDetail(snap scene.Snapshot, width int) string {
	width = max(width, 10)
	var lines []string
	if snap.HUD.Notification != "" {
		lines = append(lines, noticeStyle.Render(snap.HUD.Notification), "")
	}
	switch {
	case snap.HUD.ConfirmVisible:
		lines = append(lines,
			labelStyle.Render("Finish shopping?"),
			wordwrap.String("Are you sure you want to end the experiment now?", width),
			"",
			"[Y] Yes, finish   [N] No, keep shopping",
		)
	case snap.HUD.Panel != nil:
		product := snap.HUD.Panel
		lines = append(lines,
			labelStyle.Render(product.Name),
			fmt.Sprintf("%s %s", labelStyle.Render("Type:"), product.Type),
			fmt.Sprintf("%s %s", labelStyle.Render("Price:"), product.PriceLabel()),
		)
		if product.Description != "" {
			lines = append(lines, "", wordwrap.String(product.Description, width))
		}
		lines = append(lines, "", "[Enter] Add to cart   [C] Close")
	case snap.HUD.Prompt != "":
		lines = append(lines, promptStyle.Render(snap.HUD.Prompt))
	default:
		lines = append(lines, valueMuted.Render("Walk along the shelves to find a product."))
	}
	return strings.Join(lines, "\n")
}

func renderCart(snap scene.Snapshot) string {
	lines := []string{labelStyle.Render(fmt.Sprintf("Trolley (%d)", snap.HUD.TotalItems))}
	if len(snap.HUD.Lines) == 0 {
		lines = append(lines, valueMuted.Render("empty"))
	}
	for _, line := range snap.HUD.Lines {
		lines = append(lines, fmt.Sprintf("%s x%d", line.Name, line.Quantity))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderEnd(snap scene.Snapshot) string {
	result := snap.Result
	body := strings.Join([]string{
		labelStyle.Render("Thank you!"),
		"",
		"Your completion code is:",
		codeStyle.Render(result.Code),
		"",
		valueMuted.Render("Please enter this code in the survey. Press Q to exit."),
	}, "\n")
	return lipgloss.Place(m.width, max(m.height-1, 1), lipgloss.Center, lipgloss.Center, body)
}

func (m model) renderHelpLine(snap scene.Snapshot) string {
	switch {
	case snap.HUD.ConfirmVisible:
		return valueMuted.Render("y confirm  n cancel")
	case snap.HUD.Panel != nil:
		return valueMuted.Render("enter add to cart  c close")
	}
	help := "up/down walk  e inspect  q finish  ? help"
	if snap.ShowTrolley {
		help = "up/down walk  e inspect  t trolley  q finish  ? help"
	}
	return valueMuted.Render(help)
}

func (m model) renderStatusLine(snap scene.Snapshot) string {
	if m.status != "" {
		return statusErrorStyle.Render(m.status)
	}
	if !snap.HUD.CanMove {
		return valueMuted.Render("movement paused")
	}
	return ""
}
