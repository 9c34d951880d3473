package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"gridcal/internal/dateutil"
	"gridcal/internal/view"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"dayKey": dateutil.DayKey,
}).ParseFS(templateFS, "templates/*.html.tmpl"))

type monthPage struct {
	Lang      string
	PageTitle string
	Layout    view.MonthLayout
}

type weekPage struct {
	Lang      string
	PageTitle string
	Week      view.WeekLayout
}

// HTMLMonth writes a standalone HTML page for a month layout. The root
// element carries data-ready="true" once the page is fully rendered.
func HTMLMonth(w io.Writer, lang string, l view.MonthLayout) error {
	title := l.Title
	if title == "" {
		title = fmt.Sprintf("%04d-%02d", l.Year, int(l.Month))
	}
	if err := pages.ExecuteTemplate(w, "month", monthPage{Lang: lang, PageTitle: title, Layout: l}); err != nil {
		return fmt.Errorf("render: month html: %w", err)
	}
	return nil
}

// HTMLWeek writes a standalone HTML page for a week layout.
func HTMLWeek(w io.Writer, lang string, l view.WeekLayout) error {
	title := "week"
	if len(l.Days) > 0 {
		title = "week of " + dateutil.DayKey(l.Days[0].Date)
	}
	if err := pages.ExecuteTemplate(w, "week", weekPage{Lang: lang, PageTitle: title, Week: l}); err != nil {
		return fmt.Errorf("render: week html: %w", err)
	}
	return nil
}
