package exports

import (
	"log/slog"
	"net/http"

	"tablegen/infrastructure/audit"
	"tablegen/infrastructure/sqlite"
)

const recentLimit = 50

// ExportsPageQueryHandler lists the most recent PDF exports.
func ExportsPageQueryHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := loadSummary(r.Context(), db)
		if err != nil {
			slog.Error("load export summary failed", slog.Any("err", err))
			http.Error(w, "failed to load exports", http.StatusInternalServerError)
			return
		}
		runs, err := auditSvc.RecentExports(r.Context(), recentLimit)
		if err != nil {
			slog.Error("load export runs failed", slog.Any("err", err))
			http.Error(w, "failed to load exports", http.StatusInternalServerError)
			return
		}

		data := PageData{Summary: summary, Runs: make([]RunView, 0, len(runs))}
		for _, run := range runs {
			data.Runs = append(data.Runs, RunView{
				Reference:       run.Reference,
				Title:           run.Title,
				FileName:        run.FileName,
				RowCount:        run.RowCount,
				PageCount:       run.PageCount,
				SignatureSource: run.SignatureSource,
				CreatedAt:       run.CreatedAt.Local().Format("02/01/2006 15:04"),
			})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ExportsPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render exports page", http.StatusInternalServerError)
			return
		}
	}
}
