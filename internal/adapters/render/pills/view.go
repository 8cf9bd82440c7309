package pills

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cuttestkittensrule/carepartner/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

// Render formats a summary snapshot for the terminal, one pill per followee,
// sorted by followee id for stable output.
func Render(summaries domain.SummaryMap, opts RenderOptions) string {
	return renderView(summaries, opts, newStyles())
}

func renderView(summaries domain.SummaryMap, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Followed accounts"),
		s.header.Render(fmt.Sprintf("followees: %d", len(summaries))),
	}

	if len(summaries) == 0 {
		lines = append(lines, s.empty.Render("No followee data yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	ids := make([]string, 0, len(summaries))
	for id := range summaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		summary := summaries[id]
		lines = append(lines, s.section.Render(renderPill(id, summary, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPill(id string, summary domain.FolloweeSummary, opts RenderOptions, s styles) string {
	parts := []string{
		s.name.Render(fmt.Sprintf("%s (%s)", summary.Name, id)),
		readingLine(summary, s),
	}

	if summary.BasalRate != nil {
		parts = append(parts, s.detail.Render(fmt.Sprintf("basal: %.2f U/h", *summary.BasalRate)))
	}
	if summary.ActiveInsulin != nil || summary.ActiveCarbs != nil {
		parts = append(parts, s.detail.Render(dosingLine(summary)))
	}
	if line := activityLine(summary, opts.Now); line != "" {
		parts = append(parts, s.faint.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func readingLine(summary domain.FolloweeSummary, s styles) string {
	if summary.Reading == nil {
		return s.empty.Render("no recent glucose data")
	}

	line := fmt.Sprintf("%.0f mg/dL", *summary.Reading)
	if arrow := summary.Trend.Arrow(); arrow != "" {
		line += " " + arrow
	}
	if summary.Delta != nil {
		line += fmt.Sprintf(" (%+.0f)", *summary.Delta)
	}

	switch summary.Warning {
	case domain.WarningLevelCritical:
		return s.critical.Render(line + "  CRITICAL")
	case domain.WarningLevelWarning:
		return s.warning.Render(line + "  warning")
	default:
		return s.reading.Render(line)
	}
}

func dosingLine(summary domain.FolloweeSummary) string {
	iob := "-"
	if summary.ActiveInsulin != nil {
		iob = fmt.Sprintf("%.2f U", *summary.ActiveInsulin)
	}
	cob := "-"
	if summary.ActiveCarbs != nil {
		cob = fmt.Sprintf("%.0f g", *summary.ActiveCarbs)
	}
	return fmt.Sprintf("IOB %s / COB %s", iob, cob)
}

func activityLine(summary domain.FolloweeSummary, now time.Time) string {
	if summary.LastActivity == nil {
		return ""
	}
	return "last activity " + relativeAge(now.Sub(*summary.LastActivity))
}

func relativeAge(age time.Duration) string {
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}
