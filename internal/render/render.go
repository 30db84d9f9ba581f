package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var layout = template.Must(template.ParseFS(templateFS, "templates/layout.gohtml"))
var fragments = template.Must(template.ParseFS(
	templateFS,
	"templates/index.gohtml",
	"templates/created.gohtml",
	"templates/error.gohtml",
))

type page struct {
	Title   string
	Content template.HTML
}

// Page оборачивает фрагмент контента в общий html-каркас и пишет результат в w.
// Фрагмент рендерится отдельно, поэтому экранирование его данных
// происходит до вставки в каркас
func Page(w io.Writer, title, fragment string, data interface{}) error {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, fragment, data); err != nil {
		return err
	}
	return layout.ExecuteTemplate(w, "layout.gohtml", page{
		Title:   title,
		Content: template.HTML(buf.String()), // nolint:gosec
	})
}
