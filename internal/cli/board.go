package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/averyhollis/fabline/internal/cli/formatter"
	"github.com/averyhollis/fabline/internal/contract"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ── tabs ─────────────────────────────────────────────────────────────────────

type boardTab int

const (
	tabLate boardTab = iota
	tabOverloads
	tabMoves
	tabOvertime
	tabCount
)

func (t boardTab) title() string {
	switch t {
	case tabLate:
		return "Late Jobs"
	case tabOverloads:
		return "Overloads"
	case tabMoves:
		return "Moves"
	case tabOvertime:
		return "Overtime"
	}
	return ""
}

// ── key bindings ─────────────────────────────────────────────────────────────

type boardKeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k boardKeyMap) shortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTab, k.Refresh, k.Quit}
}

// boardViewportKeyMap returns a restricted keymap for content scrolling.
// Tab switching owns h/l and the arrows left/right, so the viewport only
// gets the vertical keys.
func boardViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

// ── messages ─────────────────────────────────────────────────────────────────

// boardLoadedMsg signals that the insight analysis finished.
type boardLoadedMsg struct {
	resp *contract.InsightResponse
	err  error
}

// ── model ────────────────────────────────────────────────────────────────────

// boardModel is a read-only bubbletea model that shows the shop's capacity
// picture on four tabs. It never mutates anything; edits go through the
// regular commands.
type boardModel struct {
	app    *App
	now    *time.Time
	byType bool

	tab     boardTab
	vp      viewport.Model
	keys    boardKeyMap
	width   int
	height  int
	loading bool
	err     error
	resp    *contract.InsightResponse

	quitting bool
}

func newBoardModel(app *App, now *time.Time, byType bool) boardModel {
	vp := viewport.New(0, 0)
	vp.KeyMap = boardViewportKeyMap()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return boardModel{
		app:     app,
		now:     now,
		byType:  byType,
		vp:      vp,
		keys:    defaultBoardKeyMap(),
		loading: true,
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.load()
}

func (m boardModel) load() tea.Cmd {
	app, now, byType := m.app, m.now, m.byType
	return func() tea.Msg {
		req := contract.NewInsightRequest()
		req.Now = now
		req.SplitByProductType = byType

		resp, err := app.Insights.Analyze(context.Background(), req)
		return boardLoadedMsg{resp: resp, err: err}
	}
}

// ── update ───────────────────────────────────────────────────────────────────

// boardChromeHeight is the number of lines taken by the header, tab bar,
// and the footer around the scrolling content area.
const boardChromeHeight = 5

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-boardChromeHeight, 1)
		m.vp.SetContent(m.tabContent())
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.resp = msg.resp
		m.vp.SetContent(m.tabContent())
		m.vp.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % tabCount
			m.vp.SetContent(m.tabContent())
			m.vp.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + tabCount - 1) % tabCount
			m.vp.SetContent(m.tabContent())
			m.vp.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			m.err = nil
			return m, m.load()
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// ── view ─────────────────────────────────────────────────────────────────────

func (m boardModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	switch {
	case m.loading:
		sections = append(sections, "\n  "+formatter.Dim("Loading..."))
	case m.err != nil:
		sections = append(sections, "\n  "+formatter.StyleRed.Render("Error: "+m.err.Error()))
	default:
		sections = append(sections, m.vp.View())
	}

	sections = append(sections, m.renderFooter())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.height {
			result += strings.Repeat("\n", m.height-lines)
		}
	}

	return result
}

func (m boardModel) renderHeader() string {
	title := formatter.StylePurple.Render("fabline")
	if m.resp != nil {
		title += "  " + formatter.Dim("as of "+formatter.DateStr(m.resp.GeneratedAt))
	}

	tabs := make([]string, 0, int(tabCount))
	for t := boardTab(0); t < tabCount; t++ {
		label := t.title()
		if n := m.tabBadge(t); n > 0 {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		if t == m.tab {
			tabs = append(tabs, formatter.StyleHeader.Render(label))
		} else {
			tabs = append(tabs, formatter.Dim(label))
		}
	}
	tabBar := " " + strings.Join(tabs, formatter.Dim("  │  "))

	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return title + "\n" + tabBar + "\n" + sep
}

// tabBadge returns the row count shown next to a tab title.
func (m boardModel) tabBadge(t boardTab) int {
	if m.resp == nil {
		return 0
	}
	ins := m.resp.Insights
	switch t {
	case tabLate:
		return len(ins.LateJobs)
	case tabOverloads:
		return len(ins.Bottlenecks)
	case tabMoves:
		return len(ins.MoveOptions)
	case tabOvertime:
		return len(ins.OTRecommendations)
	}
	return 0
}

func (m boardModel) renderFooter() string {
	var hints []string
	if !m.loading && m.err == nil && m.vp.TotalLineCount() > m.vp.Height {
		hints = append(hints, boardScrollIndicator(m.vp))
	}
	for _, b := range m.keys.shortHelp() {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}

// boardScrollIndicator returns a dim scroll position string for the footer.
func boardScrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return formatter.Dim("[TOP]")
	}
	if vp.AtBottom() {
		return formatter.Dim("[END]")
	}
	pct := int(vp.ScrollPercent() * 100)
	return formatter.Dim(fmt.Sprintf("[%d%%]", pct))
}

// ── tab content ──────────────────────────────────────────────────────────────

func (m boardModel) tabContent() string {
	if m.resp == nil {
		return ""
	}
	ins := m.resp.Insights

	var b strings.Builder
	b.WriteString("\n")

	switch m.tab {
	case tabLate:
		if len(ins.LateJobs) == 0 {
			b.WriteString("  " + formatter.StyleGreen.Render("Every job forecasts on time.") + "\n")
			break
		}
		b.WriteString(formatter.LateJobTable(ins.LateJobs))

	case tabOverloads:
		if len(ins.Bottlenecks) == 0 {
			b.WriteString("  " + formatter.StyleGreen.Render("Every department fits inside its weekly budget.") + "\n")
			break
		}
		b.WriteString(formatter.BottleneckTable(ins.Bottlenecks))

	case tabMoves:
		if len(ins.MoveOptions) == 0 {
			b.WriteString("  " + formatter.Dim("No due-date moves would relieve the current load.") + "\n")
			break
		}
		b.WriteString(formatter.MoveOptionTable(ins.MoveOptions))

	case tabOvertime:
		if len(ins.OTRecommendations) == 0 {
			b.WriteString("  " + formatter.Dim("No overtime needed this horizon.") + "\n")
			break
		}
		b.WriteString(formatter.OTTable(ins.OTRecommendations))
	}

	for _, w := range m.resp.Warnings {
		b.WriteString("\n  " + formatter.StyleYellow.Render("WARNING: "+w))
	}

	return b.String()
}
