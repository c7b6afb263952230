package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/averyhollis/fabline/internal/cli/formatter"
	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// fablineHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func fablineHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// runQuoteWizard collects a quote request interactively, pre-filled from
// whatever flags were already given. Entering a promise date upgrades the
// run to a feasibility check.
func runQuoteWizard(app *App, req *contract.QuoteRequest) error {
	var (
		dollars     string
		items       = strconv.Itoa(req.ItemCount)
		skip        []string
		checkTarget bool
		target      string
	)
	if req.DollarValue > 0 {
		dollars = strconv.FormatFloat(req.DollarValue, 'f', -1, 64)
	}
	for _, d := range req.Skipped {
		skip = append(skip, string(d))
	}

	deptOptions := make([]huh.Option[string], 0, len(app.Departments))
	for _, d := range app.Departments {
		deptOptions = append(deptOptions, huh.NewOption(string(d), string(d)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Quote name").
				Placeholder("Conveyor retrofit").
				Value(&req.Name),
			huh.NewInput().
				Title("Product type").
				Placeholder("Conveyor").
				Value(&req.ProductType),
			huh.NewInput().
				Title("Total dollar value").
				Placeholder("15000").
				Validate(validatePositiveNumber).
				Value(&dollars),
			huh.NewInput().
				Title("Line items").
				Validate(validatePositiveCount).
				Value(&items),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Departments the work skips").
				Options(deptOptions...).
				Value(&skip),
			huh.NewConfirm().
				Title("Check a promise date?").
				Value(&checkTarget),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Promise date (YYYY-MM-DD)").
				Validate(validateWizardDate).
				Value(&target),
		).WithHideFunc(func() bool { return !checkTarget }),
	).WithTheme(fablineHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}

	// Validators already passed; conversion failures fall back to zero and
	// surface through the service's request validation.
	req.DollarValue, _ = strconv.ParseFloat(strings.TrimSpace(dollars), 64)
	req.ItemCount, _ = strconv.Atoi(strings.TrimSpace(items))
	req.Skipped = req.Skipped[:0]
	for _, d := range skip {
		req.Skipped = append(req.Skipped, domain.Department(d))
	}
	if checkTarget {
		t, err := time.Parse(dateLayout, strings.TrimSpace(target))
		if err != nil {
			return fmt.Errorf("invalid promise date %q: %w", target, err)
		}
		req.TargetDate = &t
	}

	return nil
}

func validatePositiveNumber(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validatePositiveCount(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return fmt.Errorf("enter a whole number of at least 1")
	}
	return nil
}

func validateWizardDate(s string) error {
	if _, err := time.Parse(dateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("enter a date as YYYY-MM-DD")
	}
	return nil
}
