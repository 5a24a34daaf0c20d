package help

import (
	"net/http"

	"tablegen/infrastructure/rows"
)

// HelpPageQueryHandler explains how the worksheet behaves under the running configuration.
func HelpPageQueryHandler(allowCancel, guardBlanks bool, exportFileName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{
			RowsPerPage:    rows.ChunkSize,
			AllowCancel:    allowCancel,
			GuardBlanks:    guardBlanks,
			ExportFileName: exportFileName,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := HelpPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render help page", http.StatusInternalServerError)
			return
		}
	}
}
