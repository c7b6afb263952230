package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// DateStr formats a date as YYYY-MM-DD. Schedules are day-granular, so the
// wall-clock part never prints.
func DateStr(t time.Time) string {
	return t.Format(dateLayout)
}

// DatePtr formats an optional date, rendering a dimmed placeholder for nil.
func DatePtr(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return DateStr(*t)
}

// DueStr renders a due date, colored red with the slip when the forecast
// misses it.
func DueStr(due time.Time, late bool, daysLate int) string {
	s := DateStr(due)
	if !late {
		return StyleFg.Render(s)
	}
	if daysLate > 0 {
		return StyleRed.Render(fmt.Sprintf("%s (+%dd)", s, daysLate))
	}
	return StyleRed.Render(s)
}

// WindowStr renders a department window as "start → end".
func WindowStr(w domain.Window) string {
	return DateStr(w.Start) + " → " + DateStr(w.End)
}

// PointsStr formats points without trailing zeros: 850, 62.5.
func PointsStr(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Dollars formats a currency amount with a dollar sign and two decimals
// only when cents are present.
func Dollars(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("$%d", int64(v))
	}
	return fmt.Sprintf("$%.2f", v)
}

// Truncate shortens s to max visible runes, ending with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Plural appends "s" when n is not one.
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
