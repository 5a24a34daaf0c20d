package exports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"tablegen/infrastructure/audit"
	"tablegen/infrastructure/sqlite"
	"tablegen/models"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "exports-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestExportsPageQueryHandler_EmptyHistory(t *testing.T) {
	db := openTestDB(t)
	rr := httptest.NewRecorder()
	ExportsPageQueryHandler(db, audit.NewService(db)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/exports", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No exports yet.") {
		t.Fatalf("expected empty message")
	}
}

func TestExportsPageQueryHandler_ListsRunsAndSummary(t *testing.T) {
	db := openTestDB(t)
	svc := audit.NewService(db)
	ctx := context.Background()
	for _, run := range []models.ExportRun{
		{Reference: "TBL-AAAA0001", FileName: "table.pdf", Title: "Quote <A>", RowCount: 37, PageCount: 3, SignatureSource: models.SignatureSourceUploaded, Digest: "d1"},
		{Reference: "TBL-AAAA0002", FileName: "table.pdf", Title: "Quote B", RowCount: 2, PageCount: 1, SignatureSource: models.SignatureSourceDefault, Digest: "d2"},
	} {
		run := run
		if err := svc.RecordExport(ctx, &run); err != nil {
			t.Fatalf("record export: %v", err)
		}
	}

	summary, err := loadSummary(ctx, db)
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if summary.Runs != 2 || summary.Pages != 4 || summary.Uploaded != 1 || summary.LastRunAt == "" {
		t.Fatalf("unexpected summary %+v", summary)
	}

	rr := httptest.NewRecorder()
	ExportsPageQueryHandler(db, svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/exports", nil))
	body := rr.Body.String()
	for _, want := range []string{"TBL-AAAA0001", "TBL-AAAA0002", "Quote &lt;A&gt;"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
	if strings.Index(body, "TBL-AAAA0002") > strings.Index(body, "TBL-AAAA0001") {
		t.Fatalf("expected newest export first")
	}
}
