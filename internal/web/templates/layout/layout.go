package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PageData holds data shared by every page
type PageData struct {
	Title string
}

// Page renders the document shell around body
func Page(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>` +
			templ.EscapeString(data.Title) + `</title></head><body>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
