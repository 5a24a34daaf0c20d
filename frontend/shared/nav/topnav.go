package nav

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"tablegen/frontend/shared/html"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	Active string
}

type link struct {
	Key   string
	Href  string
	Label string
}

var links = []link{
	{Key: "table", Href: "/table", Label: "Table"},
	{Key: "exports", Href: "/exports", Label: "Exports"},
	{Key: "help", Href: "/help", Label: "Help"},
}

// TopNav renders the app header with the active link highlighted.
func TopNav(data TopNavData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := html.Write(w, `<nav class="topnav"><span class="brand">Table Generator</span>`); err != nil {
			return err
		}
		for _, l := range links {
			class := "navlink"
			if l.Key == data.Active {
				class += " active"
			}
			if err := html.Write(w, `<a class="`, class, `" href="`, l.Href, `">`, templ.EscapeString(l.Label), `</a>`); err != nil {
				return err
			}
		}
		return html.Write(w, `</nav>`)
	})
}
