package table

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"tablegen/frontend/shared/html"
	"tablegen/frontend/shared/nav"
	"tablegen/models"
)

// TablePage renders the whole worksheet screen.
func TablePage(data PageData) templ.Component {
	return html.Layout("Table Generator", nav.TopNav(nav.TopNavData{Active: "table"}), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := html.Alert(data.Message).Render(ctx, w); err != nil {
			return err
		}
		for _, section := range []templ.Component{
			metaForm(data),
			draftForm(data),
			rowsTable(data),
			selectionBar(data),
			signatureForm(data),
		} {
			if err := section.Render(ctx, w); err != nil {
				return err
			}
		}
		return html.Write(w, `<a class="btn btn-export" href="/table/export.pdf">Export to PDF</a>`)
	}))
}

func metaForm(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return html.Write(w,
			`<form class="card" method="post" action="/table/meta">`,
			`<input type="text" name="title" placeholder="Enter table title" value="`, templ.EscapeString(data.Title), `">`,
			`<div class="grid3">`,
			`<input type="text" name="name" placeholder="Customer Name" value="`, templ.EscapeString(data.Customer.Name), `">`,
			`<input type="text" name="location" placeholder="Location" value="`, templ.EscapeString(data.Customer.Location), `">`,
			`<input type="text" name="date" placeholder="dd-mm-yyyy" value="`, templ.EscapeString(data.Customer.Date), `">`,
			`</div>`,
			`<label>Signing date <input type="text" name="sign_date" placeholder="dd-mm-yyyy" value="`, templ.EscapeString(data.SignDate), `"></label>`,
			`<button class="btn" type="submit">Save details</button>`,
			`</form>`,
		)
	})
}

func draftForm(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		d := data.Draft
		disabled := ""
		if d.IsSubheading || data.Selecting {
			disabled = " disabled"
		}
		if err := html.Write(w,
			`<form class="card" method="post" action="/table/rows">`,
			`<div class="grid6">`,
			`<input class="span2" type="text" name="description" placeholder="Description" value="`, templ.EscapeString(d.Description), `"`, disabled, `>`,
			`<input type="number" step="any" name="quantity" placeholder="Total Qty" value="`, templ.EscapeString(d.Quantity), `"`, disabled, `>`,
			`<input type="number" step="any" name="unit_price" placeholder="Unit Price" value="`, templ.EscapeString(d.UnitPrice), `"`, disabled, `>`,
			`</div><div class="row">`,
			`<input class="grow" type="text" name="subheading" placeholder="Subheading (optional)" value="`, templ.EscapeString(d.Subheading), `">`,
		); err != nil {
			return err
		}
		for _, t := range []models.SubheadingType{models.SubheadingTypeSubheading, models.SubheadingTypeTotal} {
			class := "btn toggle"
			if d.SubheadingType == t {
				class += " active"
			}
			label := "Subheading"
			if t == models.SubheadingTypeTotal {
				label = "Total"
			}
			if err := html.Write(w,
				`<button class="`, class, `" type="submit" formaction="/table/draft" name="subheading_type" value="`, string(t), `">`, label, `</button>`,
			); err != nil {
				return err
			}
		}
		return html.Write(w,
			`<input type="hidden" name="current_type" value="`, string(d.SubheadingType), `">`,
			`</div><button class="btn btn-primary wide" type="submit">Add Row</button></form>`,
		)
	})
}

func rowsTable(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := html.Write(w,
			`<section class="card"><h2>`, templ.EscapeString(data.Title), `</h2>`,
			`<table class="rows"><thead><tr><th>No.</th><th>Description</th><th class="num">Total Qty</th><th class="num">Unit Price</th><th class="num">Value</th><th>Action</th></tr></thead><tbody>`,
		); err != nil {
			return err
		}
		for _, row := range data.Rows {
			if err := rowView(row, data.Selecting).Render(ctx, w); err != nil {
				return err
			}
		}
		return html.Write(w, `</tbody></table></section>`)
	})
}

func rowView(row RowView, selecting bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pos := strconv.Itoa(row.Position)
		var err error
		switch row.Kind {
		case models.RowKindSubheading:
			err = html.Write(w, `<tr class="subheading"><td colspan="5">`, templ.EscapeString(row.Description), `</td>`)
		case models.RowKindTotal:
			err = html.Write(w,
				`<tr class="total"><td colspan="4" class="num" title="Rows `, templ.EscapeString(row.TotaledRows), `">`, templ.EscapeString(row.Description), `</td>`,
				`<td class="num ruled">`, templ.EscapeString(row.Value), `</td>`,
			)
		default:
			err = html.Write(w,
				`<tr><td>`, strconv.Itoa(row.Number), `</td><td>`, templ.EscapeString(row.Description), `</td>`,
				`<td class="num">`, templ.EscapeString(row.Quantity), `</td>`,
				`<td class="num">`, templ.EscapeString(row.UnitPrice), `</td>`,
				`<td class="num">`, templ.EscapeString(row.Value), `</td>`,
			)
		}
		if err != nil {
			return err
		}
		if selecting {
			label := "Select"
			class := "btn small"
			if row.Selected {
				label = "Selected"
				class += " active"
			}
			return html.Write(w,
				`<td><form method="post" action="/table/selection/`, pos, `/toggle">`,
				`<button class="`, class, `" type="submit">`, label, `</button></form></td></tr>`,
			)
		}
		return html.Write(w,
			`<td><form method="post" action="/table/rows/`, pos, `/delete">`,
			`<button class="btn small danger" type="submit">Delete</button></form></td></tr>`,
		)
	})
}

func selectionBar(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !data.Selecting {
			return nil
		}
		if err := html.Write(w,
			`<div class="card selection"><p>Select the rows to add into "`, templ.EscapeString(data.Draft.Subheading), `".</p>`,
			`<form method="post" action="/table/selection/confirm"><button class="btn btn-confirm wide" type="submit">Confirm Total</button></form>`,
		); err != nil {
			return err
		}
		if data.AllowCancel {
			if err := html.Write(w, `<form method="post" action="/table/selection/cancel"><button class="btn wide" type="submit">Cancel</button></form>`); err != nil {
				return err
			}
		}
		return html.Write(w, `</div>`)
	})
}

func signatureForm(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		label := "Upload Signature (Optional)"
		hint := `<p class="hint">Default signature will be used if not uploaded</p>`
		if data.HasSignature {
			label = "Change Signature"
			hint = `<p class="hint">Using ` + templ.EscapeString(data.SignatureName) + `</p>`
		}
		if err := html.Write(w,
			`<form class="card" method="post" action="/table/signature" enctype="multipart/form-data">`,
			`<label class="btn">`, label, ` <input type="file" name="signature" accept="image/*" data-data-url="signature_data_url"></label>`,
			hint, `</form>`,
		); err != nil {
			return err
		}
		if data.HasSignature {
			return html.Write(w, `<form method="post" action="/table/signature/clear"><button class="btn small" type="submit">Use default signature</button></form>`)
		}
		return nil
	})
}
