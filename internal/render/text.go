// Package render draws month and week layouts for terminals and browsers.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridcal/internal/view"
)

const (
	cellWidth   = 14
	hourWidth   = 9
	ellipsisRun = "…"
)

// palette holds the lipgloss styles for one theme.
type palette struct {
	title    lipgloss.Style
	weekday  lipgloss.Style
	day      lipgloss.Style
	today    lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	more     lipgloss.Style
	hour     lipgloss.Style
	cell     lipgloss.Style
}

func paletteFor(theme view.Theme) palette {
	fg, muted, accent := lipgloss.Color("235"), lipgloss.Color("245"), lipgloss.Color("27")
	if theme == view.ThemeDark {
		fg, muted, accent = lipgloss.Color("252"), lipgloss.Color("240"), lipgloss.Color("75")
	}
	base := lipgloss.NewStyle().Foreground(fg)
	return palette{
		title:    base.Bold(true).MarginBottom(1),
		weekday:  base.Bold(true).Width(cellWidth),
		day:      base,
		today:    base.Bold(true).Foreground(accent).Underline(true),
		selected: base.Reverse(true),
		dim:      lipgloss.NewStyle().Foreground(muted),
		more:     lipgloss.NewStyle().Foreground(muted).Italic(true),
		hour:     lipgloss.NewStyle().Foreground(muted).Width(hourWidth),
		cell:     lipgloss.NewStyle().Width(cellWidth).PaddingRight(1),
	}
}

// Text renders a month layout as a 6x7 terminal grid.
func Text(l view.MonthLayout) string {
	p := paletteFor(l.Theme)
	var b strings.Builder

	if l.Title != "" {
		b.WriteString(p.title.Render(l.Title))
		b.WriteString("\n")
	}

	heads := make([]string, 0, len(l.Weekdays))
	for _, name := range l.Weekdays {
		heads = append(heads, p.weekday.Render(name))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, heads...))
	b.WriteString("\n")

	for row := 0; row*7 < len(l.Cells); row++ {
		cells := make([]string, 0, 7)
		for _, c := range l.Cells[row*7 : row*7+7] {
			cells = append(cells, p.cell.Render(monthCellText(p, c)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return b.String()
}

func monthCellText(p palette, c view.MonthCell) string {
	num := p.day
	switch {
	case c.Selected:
		num = p.selected
	case c.Today:
		num = p.today
	case !c.CurrentMonth || c.Past:
		num = p.dim
	}

	lines := []string{num.Render(padDay(c.Day))}
	for _, chip := range c.Events {
		lines = append(lines, chipText(p, chip, cellWidth-1))
	}
	if c.MoreLabel != "" {
		lines = append(lines, p.more.Render(c.MoreLabel))
	}
	return strings.Join(lines, "\n")
}

// TextWeek renders a week layout: one header row and one row per hour.
func TextWeek(l view.WeekLayout) string {
	p := paletteFor(l.Theme)
	var b strings.Builder

	heads := []string{p.hour.Render("")}
	for _, d := range l.Days {
		style := p.weekday
		switch {
		case d.Today:
			style = p.today.Width(cellWidth)
		case d.Past:
			style = p.dim.Width(cellWidth)
		}
		heads = append(heads, style.Render(d.Name+" "+padDay(d.Number)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, heads...))
	b.WriteString("\n")

	for _, row := range l.Rows {
		cols := []string{p.hour.Render(row.Label)}
		for _, slot := range row.Slots {
			lines := make([]string, 0, len(slot.Events))
			for _, chip := range slot.Events {
				lines = append(lines, chipText(p, chip, cellWidth-1))
			}
			cols = append(cols, p.cell.Render(strings.Join(lines, "\n")))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
		b.WriteString("\n")
	}
	return b.String()
}

func chipText(p palette, chip view.EventChip, width int) string {
	title := chip.Title
	if chip.Ellipsis {
		title = truncate(title, width-2)
	}
	style := p.day
	if chip.Cancelled {
		style = style.Strikethrough(true)
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(chip.DotColor)).Render("•")
	return dot + " " + style.Render(title)
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + ellipsisRun
}

func padDay(n int) string {
	return fmt.Sprintf("%2d", n)
}
