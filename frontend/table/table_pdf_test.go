package table

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"tablegen/infrastructure/images"
	"tablegen/models"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testAssets(t *testing.T) fstest.MapFS {
	t.Helper()
	return fstest.MapFS{
		LetterheadAsset:       {Data: testPNG(t, 600, 120)},
		DefaultSignatureAsset: {Data: testPNG(t, 200, 80)},
	}
}

func lineRows(n int) []models.Row {
	out := make([]models.Row, n)
	for i := range out {
		out[i] = models.Row{
			ID:          int64(i + 1),
			Kind:        models.RowKindLine,
			Description: fmt.Sprintf("Item %d", i+1),
			Quantity:    models.NumberOf(2),
			UnitPrice:   models.NumberOf(10),
			Value:       models.NumberOf(20),
		}
	}
	return out
}

func TestExportPaginates37RowsIntoThreePages(t *testing.T) {
	exporter := NewExporter(images.NewLoader(testAssets(t)), false)
	result, err := exporter.Export(context.Background(), ExportInput{
		Title:     "Generated Table",
		Rows:      lineRows(37),
		Customer:  models.CustomerInfo{Name: "Acme", Location: "Lagos", Date: "19-10-2026"},
		Signature: models.Signature{SignDate: "19-10-2026"},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.PageCount != 3 {
		t.Fatalf("expected 3 pages, got %d", result.PageCount)
	}
	if !bytes.HasPrefix(result.PDF, []byte("%PDF-")) {
		t.Fatalf("expected pdf bytes")
	}
	if result.SignatureSource != models.SignatureSourceDefault {
		t.Fatalf("expected default signature, got %q", result.SignatureSource)
	}
	if !strings.HasPrefix(result.Reference, "TBL-") || len(result.Reference) != 12 {
		t.Fatalf("unexpected reference %q", result.Reference)
	}
}

func TestProjectChunkNumbersContinueAcrossPages(t *testing.T) {
	third := lineRows(37)[36:]
	cells := projectChunk(third, 2, false)
	if len(cells) != 1 {
		t.Fatalf("expected 1 projected row, got %d", len(cells))
	}
	if cells[0][0].Text != "37" {
		t.Fatalf("expected row number 37, got %q", cells[0][0].Text)
	}
	if cells[0][4].Text != "20.00" {
		t.Fatalf("expected formatted value, got %q", cells[0][4].Text)
	}
}

func TestProjectRowShapes(t *testing.T) {
	sub := projectRow(models.Row{Kind: models.RowKindSubheading, Description: "Materials"}, 1, false, false)
	if len(sub) != 2 || sub[1].Span != 4 || !sub[1].Bold || sub[1].Text != "Materials" {
		t.Fatalf("unexpected subheading cells %+v", sub)
	}

	tot := projectRow(models.Row{Kind: models.RowKindTotal, Description: "Subtotal", Value: models.NumberOf(1234.5)}, 1, false, false)
	if len(tot) != 3 || tot[1].Span != 3 {
		t.Fatalf("unexpected total cells %+v", tot)
	}
	if tot[2].Text != "1,234.50" || tot[2].Border != "TB" || !tot[2].Fill {
		t.Fatalf("unexpected total value cell %+v", tot[2])
	}

	blank := projectRow(models.Row{Kind: models.RowKindLine, Quantity: models.NumberOf(3)}, 4, true, false)
	if blank[3].Text != "NaN" || blank[4].Text != "NaN" {
		t.Fatalf("expected NaN placeholders, got %q %q", blank[3].Text, blank[4].Text)
	}
	if !blank[0].Fill {
		t.Fatalf("expected striped fill")
	}
	guarded := projectRow(models.Row{Kind: models.RowKindLine}, 1, false, true)
	if guarded[3].Text != "" {
		t.Fatalf("expected guarded blank, got %q", guarded[3].Text)
	}
}

func TestExportEmptyTableRendersOnePage(t *testing.T) {
	result, err := NewExporter(images.NewLoader(testAssets(t)), false).Export(context.Background(), ExportInput{Title: "Empty"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.PageCount != 1 {
		t.Fatalf("expected 1 page, got %d", result.PageCount)
	}
}

func TestExportUsesUploadedSignature(t *testing.T) {
	result, err := NewExporter(images.NewLoader(testAssets(t)), false).Export(context.Background(), ExportInput{
		Title:     "Signed",
		Rows:      lineRows(2),
		Signature: models.Signature{Data: testPNG(t, 100, 40), MIMEType: "image/png", SignDate: "01-01-2026"},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.SignatureSource != models.SignatureSourceUploaded {
		t.Fatalf("expected uploaded signature, got %q", result.SignatureSource)
	}
}

func TestExportAccepts16BitSignature(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		src.Set(x, 10, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	loader := images.NewLoader(testAssets(t))
	if _, err := loader.LoadBytes(context.Background(), "sig.png", buf.Bytes()); err != nil {
		t.Fatalf("upload: %v", err)
	}

	result, err := NewExporter(loader, false).Export(context.Background(), ExportInput{
		Title:     "Signed",
		Rows:      lineRows(1),
		Signature: models.Signature{Data: buf.Bytes(), MIMEType: "image/png", SignDate: "01-01-2026"},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.SignatureSource != models.SignatureSourceUploaded {
		t.Fatalf("expected uploaded signature, got %q", result.SignatureSource)
	}
}

func TestExportFailsWithoutLetterhead(t *testing.T) {
	assets := testAssets(t)
	delete(assets, LetterheadAsset)
	result, err := NewExporter(images.NewLoader(assets), false).Export(context.Background(), ExportInput{Rows: lineRows(1)})
	if !errors.Is(err, images.ErrImageLoad) {
		t.Fatalf("expected ErrImageLoad, got %v", err)
	}
	if len(result.PDF) != 0 {
		t.Fatalf("expected no partial output")
	}
}

func TestExportFailsOnCorruptSignature(t *testing.T) {
	_, err := NewExporter(images.NewLoader(testAssets(t)), false).Export(context.Background(), ExportInput{
		Rows:      lineRows(1),
		Signature: models.Signature{Data: []byte("corrupt")},
	})
	if !errors.Is(err, images.ErrImageLoad) {
		t.Fatalf("expected ErrImageLoad, got %v", err)
	}
}

func TestDocumentDigestStable(t *testing.T) {
	in := ExportInput{Title: "T", Rows: lineRows(3)}
	if documentDigest(in) != documentDigest(in) {
		t.Fatalf("expected identical digests")
	}
	changed := in
	changed.Title = "U"
	if documentDigest(in) == documentDigest(changed) {
		t.Fatalf("expected digest to change with title")
	}
}
