package formatter

import (
	"fmt"
	"strings"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill returns a colored indicator for a job's floor status.
func StatusPill(status domain.JobStatus) string {
	switch status {
	case domain.JobPending:
		return StyleBlue.Render("○ Pending")
	case domain.JobInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.JobOnHold:
		return StyleYellow.Render("◌ On Hold")
	case domain.JobCompleted:
		return StyleDim.Render("✔ Done")
	default:
		return StyleDim.Render(string(status))
	}
}

// ProgressPill returns a colored indicator for where a job sits relative to
// its scheduled window.
func ProgressPill(p domain.ProgressStatus) string {
	switch p {
	case domain.ProgressOnTrack:
		return StyleGreen.Render("on track")
	case domain.ProgressAhead:
		return StyleBlue.Render("ahead")
	case domain.ProgressSlipping:
		return StyleYellow.Render("slipping")
	case domain.ProgressStalled:
		return StyleRed.Render("stalled")
	default:
		return StyleDim.Render(string(p))
	}
}

// VerdictBadge returns a colored feasibility verdict such as "● ACCEPT".
func VerdictBadge(v domain.Verdict) string {
	switch v {
	case domain.VerdictAccept:
		return StyleGreen.Render("● ACCEPT")
	case domain.VerdictAcceptWithMoves:
		return StyleYellow.Render("● ACCEPT WITH MOVES")
	case domain.VerdictAcceptWithOT:
		return StyleYellow.Render("● ACCEPT WITH OVERTIME")
	case domain.VerdictReject:
		return StyleRed.Render("● REJECT")
	default:
		return StyleDim.Render("● " + string(v))
	}
}

// RiskTag colors a move option's risk level.
func RiskTag(r domain.RiskLevel) string {
	switch r {
	case domain.RiskSafe:
		return StyleGreen.Render("safe")
	case domain.RiskModerate:
		return StyleYellow.Render("moderate")
	default:
		return StyleDim.Render(string(r))
	}
}

// StrategyLabel colors a planning strategy name.
func StrategyLabel(s domain.Strategy) string {
	switch s {
	case domain.StrategyDirect:
		return StyleGreen.Render("direct")
	case domain.StrategyMoveJobs:
		return StyleYellow.Render("move jobs")
	case domain.StrategyOvertime:
		return StylePurple.Render("overtime")
	case domain.StrategyNoFit:
		return StyleRed.Render("no fit")
	default:
		return StyleDim.Render(string(s))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
