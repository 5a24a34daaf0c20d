package exports

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"tablegen/frontend/shared/html"
	"tablegen/frontend/shared/nav"
)

func ExportsPage(data PageData) templ.Component {
	return html.Layout("Exports", nav.TopNav(nav.TopNavData{Active: "exports"}), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s := data.Summary
		if err := html.Write(w,
			`<section class="card"><h2>Exports</h2><div class="stats">`,
			`<span>Documents: <strong>`, strconv.FormatInt(s.Runs, 10), `</strong></span>`,
			`<span>Pages: <strong>`, strconv.FormatInt(s.Pages, 10), `</strong></span>`,
			`<span>Signed uploads: <strong>`, strconv.FormatInt(s.Uploaded, 10), `</strong></span>`,
			`<span>Last export: <strong>`, templ.EscapeString(s.LastRunAt), `</strong></span>`,
			`</div></section>`,
		); err != nil {
			return err
		}
		if len(data.Runs) == 0 {
			return html.Write(w, `<p class="hint">No exports yet.</p>`)
		}
		if err := html.Write(w, `<table class="rows"><thead><tr><th>Reference</th><th>Title</th><th>File</th><th class="num">Rows</th><th class="num">Pages</th><th>Signature</th><th>Created</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, run := range data.Runs {
			if err := html.Write(w,
				`<tr><td>`, templ.EscapeString(run.Reference), `</td>`,
				`<td>`, templ.EscapeString(run.Title), `</td>`,
				`<td>`, templ.EscapeString(run.FileName), `</td>`,
				`<td class="num">`, strconv.Itoa(run.RowCount), `</td>`,
				`<td class="num">`, strconv.Itoa(run.PageCount), `</td>`,
				`<td>`, templ.EscapeString(run.SignatureSource), `</td>`,
				`<td>`, templ.EscapeString(run.CreatedAt), `</td></tr>`,
			); err != nil {
				return err
			}
		}
		return html.Write(w, `</tbody></table>`)
	}))
}
