package http

import (
	"github.com/go-chi/chi/v5"

	exportspage "tablegen/frontend/exports"
	"tablegen/frontend/help"
	"tablegen/frontend/table"
)

// RegisterTableRoutes registers the worksheet screen and its commands.
func (s *Server) RegisterTableRoutes(r chi.Router) chi.Router {
	r.Get("/table", table.TablePageQueryHandler(s.Config.GuardBlanks))
	r.Post("/table/meta", table.UpdateMetaCommandHandler())
	r.Post("/table/draft", table.UpdateDraftCommandHandler())

	r.Post("/table/rows", table.SubmitRowCommandHandler())
	r.Post("/table/rows/{pos}/delete", table.DeleteRowCommandHandler())

	r.Post("/table/selection/{pos}/toggle", table.ToggleSelectionCommandHandler())
	r.Post("/table/selection/confirm", table.ConfirmTotalCommandHandler())
	r.Post("/table/selection/cancel", table.CancelSelectionCommandHandler())

	r.Post("/table/signature", table.UploadSignatureCommandHandler(s.Images))
	r.Post("/table/signature/clear", table.ClearSignatureCommandHandler())

	r.Get("/table/export.pdf", table.ExportPDFHandler(s.Exporter, s.Audit, s.Config.ExportFileName))
	return r
}

// RegisterExportRoutes registers the export history screen.
func (s *Server) RegisterExportRoutes(r chi.Router) {
	r.Get("/exports", exportspage.ExportsPageQueryHandler(s.DB, s.Audit))
}

// RegisterHelpRoutes registers the usage page.
func (s *Server) RegisterHelpRoutes(r chi.Router) {
	r.Get("/help", help.HelpPageQueryHandler(s.Config.AllowSelectionCancel, s.Config.GuardBlanks, s.Config.ExportFileName))
}
