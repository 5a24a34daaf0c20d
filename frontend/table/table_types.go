package table

import (
	"strconv"
	"strings"

	"tablegen/infrastructure/worksheet"
	"tablegen/models"
)

type RowView struct {
	Position    int
	Number      int
	Kind        models.RowKind
	Description string
	Quantity    string
	UnitPrice   string
	Value       string
	TotaledRows string
	Selected    bool
}

type PageData struct {
	Title         string
	Customer      models.CustomerInfo
	SignDate      string
	HasSignature  bool
	SignatureName string
	Draft         models.Draft
	Selecting     bool
	AllowCancel   bool
	Rows          []RowView
	Message       string
}

// buildPageData projects a worksheet into what the page shows.
func buildPageData(s worksheet.State, opts worksheet.Options, guardBlanks bool) PageData {
	all := s.Rows.Rows()
	views := make([]RowView, 0, len(all))
	for i, row := range all {
		v := RowView{
			Position:    i,
			Number:      i + 1,
			Kind:        row.Kind,
			Description: row.Description,
			Selected:    s.Selected(i),
		}
		switch row.Kind {
		case models.RowKindLine:
			v.Quantity = FormatQuantity(row.Quantity)
			v.UnitPrice = FormatNumber(row.UnitPrice, guardBlanks)
			v.Value = FormatNumber(row.Value, guardBlanks)
		case models.RowKindTotal:
			v.Value = FormatNumber(row.Value, guardBlanks)
			v.TotaledRows = positionsLabel(row.TotaledRows)
		}
		views = append(views, v)
	}
	return PageData{
		Title:         s.Title,
		Customer:      s.Customer,
		SignDate:      s.Signature.SignDate,
		HasSignature:  s.Signature.Uploaded(),
		SignatureName: s.Signature.FileName,
		Draft:         s.Draft,
		Selecting:     s.Selecting,
		AllowCancel:   opts.AllowSelectionCancel,
		Rows:          views,
	}
}

// positionsLabel lists referenced rows using the 1-based numbers shown in the table.
func positionsLabel(positions []int) string {
	labels := make([]string, len(positions))
	for i, p := range positions {
		labels[i] = strconv.Itoa(p + 1)
	}
	return strings.Join(labels, ", ")
}
