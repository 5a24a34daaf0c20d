package help

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"tablegen/frontend/shared/html"
	"tablegen/frontend/shared/nav"
)

type PageData struct {
	RowsPerPage    int
	AllowCancel    bool
	GuardBlanks    bool
	ExportFileName string
}

func HelpPage(data PageData) templ.Component {
	return html.Layout("Help", nav.TopNav(nav.TopNavData{Active: "help"}), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cancel := "Once a total is started it must be confirmed; it cannot be cancelled."
		if data.AllowCancel {
			cancel = "A total that is being selected can be cancelled without adding a row."
		}
		blanks := "Missing unit prices are shown as NaN."
		if data.GuardBlanks {
			blanks = "Missing unit prices are left blank."
		}
		return html.Write(w,
			`<section class="card"><h2>Using the table generator</h2><ul>`,
			`<li>Enter a description, quantity and unit price, then press Add Row. The value is quantity times unit price.</li>`,
			`<li>Type a subheading to add a heading row instead. With Total selected, pressing Add Row lets you pick the rows to add up, then Confirm Total.</li>`,
			`<li>`, templ.EscapeString(cancel), `</li>`,
			`<li>Deleting a row keeps existing totals at their value; their row references are renumbered.</li>`,
			`<li>`, templ.EscapeString(blanks), `</li>`,
			`<li>The PDF holds `, strconv.Itoa(data.RowsPerPage), ` rows per page and downloads as <strong>`, templ.EscapeString(data.ExportFileName), `</strong>.</li>`,
			`<li>Without an uploaded signature the default signature is printed.</li>`,
			`</ul></section>`,
		)
	}))
}
