package table

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/crypto/blake2b"

	"tablegen/infrastructure/images"
	"tablegen/infrastructure/rows"
	"tablegen/models"
)

const (
	LetterheadAsset       = "images/letterhead.png"
	DefaultSignatureAsset = "images/signature.png"
)

var (
	tableColumnWidths = []float64{20, 50, 30, 40, 40}
	tableHead         = []string{"No.", "Description", "Total QTY", "Unit Price", "Value"}
)

const (
	tableMarginLeft = 10.0
	tableRowHeight  = 7.0
	tableCellMargin = 2.0
	tableFontSize   = 8.0
	wideFontSize    = 10.0
	signatureWidth  = 50.0
	signatureMaxH   = 24.0
)

// ExportInput is the snapshot of a worksheet handed to the exporter.
type ExportInput struct {
	Title     string
	Rows      []models.Row
	Customer  models.CustomerInfo
	Signature models.Signature
}

// ExportResult is a fully rendered document.
type ExportResult struct {
	PDF             []byte
	Reference       string
	Digest          string
	RowCount        int
	PageCount       int
	SignatureSource string
}

// Exporter paginates rows into fixed-size chunks and draws one branded page per chunk.
type Exporter struct {
	Images      *images.Loader
	GuardBlanks bool
}

func NewExporter(loader *images.Loader, guardBlanks bool) *Exporter {
	return &Exporter{Images: loader, GuardBlanks: guardBlanks}
}

// Export loads the letterhead then the signature, and only then draws. Any
// failure returns an error and no bytes.
func (e *Exporter) Export(ctx context.Context, in ExportInput) (ExportResult, error) {
	letterhead, err := e.Images.LoadAsset(ctx, LetterheadAsset)
	if err != nil {
		return ExportResult{}, fmt.Errorf("letterhead: %w", err)
	}

	source := models.SignatureSourceDefault
	var signature images.Image
	if in.Signature.Uploaded() {
		source = models.SignatureSourceUploaded
		signature, err = e.Images.LoadBytes(ctx, "signature", in.Signature.Data)
	} else {
		signature, err = e.Images.LoadAsset(ctx, DefaultSignatureAsset)
	}
	if err != nil {
		return ExportResult{}, fmt.Errorf("signature: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return ExportResult{}, err
	}

	digest := documentDigest(in)
	result := ExportResult{
		Reference:       "TBL-" + strings.ToUpper(hex.EncodeToString(digest[:4])),
		Digest:          hex.EncodeToString(digest[:]),
		RowCount:        len(in.Rows),
		SignatureSource: source,
	}

	pdfBytes, pages, err := e.render(in, letterhead, signature, result.Reference)
	if err != nil {
		return ExportResult{}, err
	}
	result.PDF = pdfBytes
	result.PageCount = pages
	return result, nil
}

type documentRenderer struct {
	pdf         *gofpdf.Fpdf
	tr          func(string) string
	pageW       float64
	pageH       float64
	in          ExportInput
	letterhead  images.Image
	signature   images.Image
	reference   string
	guardBlanks bool
}

func (e *Exporter) render(in ExportInput, letterhead, signature images.Image, reference string) ([]byte, int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(in.Title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(tableMarginLeft, 10, tableMarginLeft)
	pdf.SetCellMargin(tableCellMargin)

	barcodePNG, err := renderCode128PNG(reference, 600, 120)
	if err != nil {
		return nil, 0, fmt.Errorf("reference barcode: %w", err)
	}

	r := &documentRenderer{
		pdf:         pdf,
		tr:          pdf.UnicodeTranslatorFromDescriptor(""),
		in:          in,
		letterhead:  letterhead,
		signature:   signature,
		reference:   reference,
		guardBlanks: e.GuardBlanks,
	}
	r.pageW, r.pageH = pdf.GetPageSize()
	r.register("letterhead", letterhead.Type, letterhead.Data)
	r.register("signature", signature.Type, signature.Data)
	r.register("reference-barcode", "PNG", barcodePNG)

	chunks := rows.Chunks(in.Rows, rows.ChunkSize)
	if len(chunks) == 0 {
		chunks = [][]models.Row{nil}
	}

	// Page numbers come from this counter, not from the writer.
	pageNumber := 0
	for chunkIndex, chunk := range chunks {
		pdf.AddPage()
		pageNumber++
		r.drawHeader()
		r.drawTable(chunk, chunkIndex)
		r.drawFooter(pageNumber)
		if err := pdf.Error(); err != nil {
			return nil, 0, fmt.Errorf("draw page %d: %w", pageNumber, err)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, 0, err
	}
	return out.Bytes(), pageNumber, nil
}

func (r *documentRenderer) register(name, imageType string, data []byte) {
	opt := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	r.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
}

func (r *documentRenderer) image(name, imageType string, x, y, w, h float64) {
	opt := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	r.pdf.ImageOptions(name, x, y, w, h, false, opt, 0, "")
}

func (r *documentRenderer) drawHeader() {
	pdf := r.pdf
	r.image("letterhead", r.letterhead.Type, 0, 0, r.pageW, r.pageW*r.letterhead.Ratio())

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 12)
	infoY := r.pageH * 0.2
	pdf.Text(10, infoY, r.tr("Name: "+r.in.Customer.Name))
	pdf.Text(10, infoY+7, r.tr("Location: "+r.in.Customer.Location))
	pdf.Text(10, infoY+14, r.tr("Date: "+r.in.Customer.Date))

	title := r.tr(r.in.Title)
	pdf.SetFont("Helvetica", "", 16)
	titleW := pdf.GetStringWidth(title)
	titleY := r.pageH * 0.25
	pdf.Text((r.pageW-titleW)/2, titleY, title)
	pdf.SetLineWidth(0.5)
	pdf.Line((r.pageW-titleW)/2, titleY+1, (r.pageW+titleW)/2, titleY+1)
}

// tableCell is one drawn cell; Span counts the columns it covers.
type tableCell struct {
	Text   string
	Span   int
	Bold   bool
	Fill   bool
	Size   float64
	Border string
}

// projectRow maps a row to its table cells. number is the row's position in
// the full sequence, so numbering continues across pages.
func projectRow(row models.Row, number int, striped, guardBlanks bool) []tableCell {
	switch row.Kind {
	case models.RowKindSubheading:
		return []tableCell{
			{Span: 1, Bold: true, Size: tableFontSize},
			{Text: row.Description, Span: 4, Bold: true, Size: wideFontSize},
		}
	case models.RowKindTotal:
		return []tableCell{
			{Span: 1, Bold: true, Fill: true, Size: tableFontSize},
			{Text: row.Description, Span: 3, Bold: true, Fill: true, Size: wideFontSize},
			{Text: FormatNumber(row.Value, guardBlanks), Span: 1, Bold: true, Fill: true, Size: wideFontSize, Border: "TB"},
		}
	default:
		return []tableCell{
			{Text: strconv.Itoa(number), Span: 1, Fill: striped, Size: tableFontSize},
			{Text: row.Description, Span: 1, Fill: striped, Size: tableFontSize},
			{Text: FormatQuantity(row.Quantity), Span: 1, Fill: striped, Size: tableFontSize},
			{Text: FormatNumber(row.UnitPrice, guardBlanks), Span: 1, Fill: striped, Size: tableFontSize},
			{Text: FormatNumber(row.Value, guardBlanks), Span: 1, Fill: striped, Size: tableFontSize},
		}
	}
}

// projectChunk projects the rows of one page.
func projectChunk(chunk []models.Row, chunkIndex int, guardBlanks bool) [][]tableCell {
	out := make([][]tableCell, len(chunk))
	for i, row := range chunk {
		out[i] = projectRow(row, chunkIndex*rows.ChunkSize+i+1, i%2 == 1, guardBlanks)
	}
	return out
}

func (r *documentRenderer) drawTable(chunk []models.Row, chunkIndex int) {
	pdf := r.pdf
	y := r.pageH * 0.3
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)

	pdf.SetXY(tableMarginLeft, y)
	pdf.SetFont("Helvetica", "B", tableFontSize)
	pdf.SetFillColor(220, 220, 220)
	for i, head := range tableHead {
		pdf.CellFormat(tableColumnWidths[i], tableRowHeight, head, "", 0, "L", true, 0, "")
	}
	y += tableRowHeight

	for i, cells := range projectChunk(chunk, chunkIndex, r.guardBlanks) {
		pdf.SetXY(tableMarginLeft, y)
		if chunk[i].IsTotal() {
			pdf.SetFillColor(220, 220, 220)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}
		r.drawCells(cells)
		y += tableRowHeight
	}
}

func (r *documentRenderer) drawCells(cells []tableCell) {
	pdf := r.pdf
	col := 0
	for _, cell := range cells {
		width := sumWidths(tableColumnWidths[col : col+cell.Span])
		col += cell.Span

		style := ""
		if cell.Bold {
			style = "B"
		}
		text := r.tr(cell.Text)
		size := fitFontSizeForWidth(pdf, "Helvetica", style, cell.Size, 5, text, width-2*tableCellMargin)
		pdf.SetFont("Helvetica", style, size)
		if cell.Border != "" {
			pdf.SetLineWidth(0.6)
		}
		pdf.CellFormat(width, tableRowHeight, text, cell.Border, 0, "L", cell.Fill, 0, "")
		if cell.Border != "" {
			pdf.SetLineWidth(0.2)
		}
	}
}

func (r *documentRenderer) drawFooter(pageNumber int) {
	pdf := r.pdf

	sigW := signatureWidth
	sigH := sigW * r.signature.Ratio()
	if sigH > signatureMaxH {
		sigH = signatureMaxH
		sigW = sigH / r.signature.Ratio()
	}
	r.image("signature", r.signature.Type, r.pageW-60, r.pageH-70, sigW, sigH)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(r.pageW-60, r.pageH-45, r.tr("Date: "+r.in.Signature.SignDate))

	r.image("reference-barcode", "PNG", 10, r.pageH-40, 50, 10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(10, r.pageH-26, r.reference)

	label := fmt.Sprintf("Page %d", pageNumber)
	pdf.Text((r.pageW-pdf.GetStringWidth(label))/2, r.pageH-10, label)
}

func sumWidths(widths []float64) float64 {
	var total float64
	for _, w := range widths {
		total += w
	}
	return total
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

// documentDigest hashes everything that ends up on the page so identical
// worksheets share a reference.
func documentDigest(in ExportInput) [32]byte {
	var b strings.Builder
	fmt.Fprintf(&b, "title=%s\nname=%s\nlocation=%s\ndate=%s\nsigned=%s\n",
		in.Title, in.Customer.Name, in.Customer.Location, in.Customer.Date, in.Signature.SignDate)
	for _, row := range in.Rows {
		fmt.Fprintf(&b, "%s|%s|%s|%s|%s|%v\n",
			row.Kind, row.Description, FormatQuantity(row.Quantity),
			FormatNumber(row.UnitPrice, false), FormatNumber(row.Value, false), row.TotaledRows)
	}
	if in.Signature.Uploaded() {
		sum := blake2b.Sum256(in.Signature.Data)
		b.WriteString("signature=" + hex.EncodeToString(sum[:]))
	}
	return blake2b.Sum256([]byte(b.String()))
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, images.ToNRGBA(scaled)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
