package table

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	sessioncontext "tablegen/frontend/shared/context"
	"tablegen/infrastructure/audit"
	"tablegen/infrastructure/images"
	"tablegen/infrastructure/rows"
	"tablegen/infrastructure/worksheet"
	"tablegen/models"
)

const maxSignatureBytes = 5 << 20

// TablePageQueryHandler renders the worksheet for the caller's workspace.
func TablePageQueryHandler(guardBlanks bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			http.Error(w, "workspace not found", http.StatusInternalServerError)
			return
		}
		data := buildPageData(ws.Snapshot(), ws.Options(), guardBlanks)
		data.Message = strings.TrimSpace(r.URL.Query().Get("error"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := TablePage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render table page", http.StatusInternalServerError)
			return
		}
	}
}

// UpdateMetaCommandHandler saves the title, customer details and signing date.
func UpdateMetaCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceOrError(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, "invalid form")
			return
		}
		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			title = worksheet.DefaultTitle
		}
		signDate := strings.TrimSpace(r.FormValue("sign_date"))
		if signDate == "" {
			signDate = time.Now().Format(worksheet.DateLayout)
		}
		for _, a := range []worksheet.Action{
			worksheet.SetTitle{Title: title},
			worksheet.SetCustomer{Customer: models.CustomerInfo{
				Name:     strings.TrimSpace(r.FormValue("name")),
				Location: strings.TrimSpace(r.FormValue("location")),
				Date:     strings.TrimSpace(r.FormValue("date")),
			}},
			worksheet.SetSignDate{SignDate: signDate},
		} {
			if _, err := ws.Dispatch(a); err != nil {
				redirectWithError(w, r, userMessage(err))
				return
			}
		}
		http.Redirect(w, r, "/table", http.StatusSeeOther)
	}
}

// UpdateDraftCommandHandler stores the pending row without submitting it.
func UpdateDraftCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceOrError(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, "invalid form")
			return
		}
		if ws.Snapshot().Selecting {
			redirectWithError(w, r, userMessage(worksheet.ErrSelectionActive))
			return
		}
		if _, err := ws.Dispatch(worksheet.UpdateDraft{Draft: draftFromForm(r)}); err != nil {
			redirectWithError(w, r, userMessage(err))
			return
		}
		http.Redirect(w, r, "/table", http.StatusSeeOther)
	}
}

// SubmitRowCommandHandler adds the draft as a line or subheading, or starts a total selection.
func SubmitRowCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceOrError(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, "invalid form")
			return
		}
		if ws.Snapshot().Selecting {
			redirectWithError(w, r, userMessage(worksheet.ErrSelectionActive))
			return
		}
		if _, err := ws.Dispatch(worksheet.UpdateDraft{Draft: draftFromForm(r)}); err != nil {
			redirectWithError(w, r, userMessage(err))
			return
		}
		if _, err := ws.Dispatch(worksheet.SubmitDraft{At: time.Now()}); err != nil {
			redirectWithError(w, r, userMessage(err))
			return
		}
		http.Redirect(w, r, "/table", http.StatusSeeOther)
	}
}

// DeleteRowCommandHandler removes the row at {pos}.
func DeleteRowCommandHandler() http.HandlerFunc {
	return positionCommand(func(pos int) worksheet.Action { return worksheet.DeleteRow{Position: pos} })
}

// ToggleSelectionCommandHandler flips {pos} in the pending total selection.
func ToggleSelectionCommandHandler() http.HandlerFunc {
	return positionCommand(func(pos int) worksheet.Action { return worksheet.ToggleRow{Position: pos} })
}

// ConfirmTotalCommandHandler appends the pending total row.
func ConfirmTotalCommandHandler() http.HandlerFunc {
	return actionCommand(func() worksheet.Action { return worksheet.ConfirmTotal{At: time.Now()} })
}

// CancelSelectionCommandHandler leaves selection mode when the workspace allows it.
func CancelSelectionCommandHandler() http.HandlerFunc {
	return actionCommand(func() worksheet.Action { return worksheet.CancelSelection{} })
}

// ClearSignatureCommandHandler reverts to the bundled signature.
func ClearSignatureCommandHandler() http.HandlerFunc {
	return actionCommand(func() worksheet.Action { return worksheet.ClearSignature{} })
}

// UploadSignatureCommandHandler accepts a multipart "signature" file or a
// "signature_data_url" field and keeps the decoded image on the worksheet.
func UploadSignatureCommandHandler(loader *images.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceOrError(w, r)
		if !ok {
			return
		}
		var (
			img      images.Image
			fileName string
			err      error
		)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(maxSignatureBytes); err != nil {
				redirectWithError(w, r, "signature upload is too large or malformed")
				return
			}
		}
		if dataURL := strings.TrimSpace(r.FormValue("signature_data_url")); dataURL != "" {
			if len(dataURL) > maxSignatureBytes*4/3+128 {
				redirectWithError(w, r, "signature image must be 5 MB or smaller")
				return
			}
			fileName = "signature"
			img, err = loader.LoadDataURL(r.Context(), fileName, dataURL)
		} else {
			var data []byte
			data, fileName, err = readSignatureFile(r)
			if err != nil {
				redirectWithError(w, r, err.Error())
				return
			}
			img, err = loader.LoadBytes(r.Context(), fileName, data)
		}
		if err != nil {
			slog.Warn("signature decode failed", slog.String("file", fileName), slog.Any("err", err))
			redirectWithError(w, r, "could not read the signature image")
			return
		}

		if _, err := ws.Dispatch(worksheet.SetSignature{
			Data:     img.Data,
			MIMEType: mimeTypeFor(img.Type),
			FileName: fileName,
		}); err != nil {
			redirectWithError(w, r, userMessage(err))
			return
		}
		http.Redirect(w, r, "/table", http.StatusSeeOther)
	}
}

// ExportPDFHandler renders the worksheet to a PDF attachment. Only one export
// per workspace runs at a time.
func ExportPDFHandler(exporter *Exporter, auditSvc *audit.Service, fileName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceOrError(w, r)
		if !ok {
			return
		}
		release, err := ws.BeginExport()
		if err != nil {
			http.Error(w, userMessage(err), http.StatusConflict)
			return
		}
		defer release()

		state := ws.Snapshot()
		result, err := exporter.Export(r.Context(), ExportInput{
			Title:     state.Title,
			Rows:      state.Rows.Rows(),
			Customer:  state.Customer,
			Signature: state.Signature,
		})
		if err != nil {
			slog.Error("export pdf failed", slog.String("workspace", ws.Token), slog.Any("err", err))
			redirectWithError(w, r, "Failed to export PDF: "+userMessage(err))
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
		if _, err := w.Write(result.PDF); err != nil {
			slog.Error("write pdf failed", slog.String("reference", result.Reference), slog.Any("err", err))
			return
		}

		if auditSvc == nil {
			return
		}
		if err := auditSvc.RecordExport(r.Context(), &models.ExportRun{
			Reference:       result.Reference,
			FileName:        fileName,
			Title:           state.Title,
			RowCount:        result.RowCount,
			PageCount:       result.PageCount,
			SignatureSource: result.SignatureSource,
			Digest:          result.Digest,
		}); err != nil {
			slog.Error("record export run failed", slog.String("reference", result.Reference), slog.Any("err", err))
		}
	}
}

func actionCommand(build func() worksheet.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspaceOrError(w, r)
		if !ok {
			return
		}
		if _, err := ws.Dispatch(build()); err != nil {
			redirectWithError(w, r, userMessage(err))
			return
		}
		http.Redirect(w, r, "/table", http.StatusSeeOther)
	}
}

func positionCommand(build func(pos int) worksheet.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
		if err != nil || pos < 0 {
			http.Error(w, "invalid row position", http.StatusBadRequest)
			return
		}
		actionCommand(func() worksheet.Action { return build(pos) })(w, r)
	}
}

func workspaceOrError(w http.ResponseWriter, r *http.Request) (*worksheet.Workspace, bool) {
	ws, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
	if !ok {
		http.Error(w, "workspace not found", http.StatusInternalServerError)
		return nil, false
	}
	return ws, true
}

func redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/table?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func draftFromForm(r *http.Request) models.Draft {
	kind := models.SubheadingType(strings.TrimSpace(r.FormValue("subheading_type")))
	if kind == "" {
		kind = models.SubheadingType(strings.TrimSpace(r.FormValue("current_type")))
	}
	return models.Draft{
		Description:    strings.TrimSpace(r.FormValue("description")),
		Quantity:       strings.TrimSpace(r.FormValue("quantity")),
		UnitPrice:      strings.TrimSpace(r.FormValue("unit_price")),
		Subheading:     strings.TrimSpace(r.FormValue("subheading")),
		SubheadingType: kind,
	}
}

func readSignatureFile(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("signature")
	if err != nil {
		return nil, "", errors.New("choose a signature image to upload")
	}
	defer file.Close()
	if header.Size > maxSignatureBytes {
		return nil, "", errors.New("signature image must be 5 MB or smaller")
	}
	data, err := io.ReadAll(io.LimitReader(file, maxSignatureBytes+1))
	if err != nil {
		return nil, "", errors.New("failed to read signature image")
	}
	if len(data) > maxSignatureBytes {
		return nil, "", errors.New("signature image must be 5 MB or smaller")
	}
	return data, header.Filename, nil
}

func mimeTypeFor(imageType string) string {
	switch imageType {
	case "JPG":
		return "image/jpeg"
	case "GIF":
		return "image/gif"
	default:
		return "image/png"
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, worksheet.ErrSelectionActive):
		return "Finish selecting rows for the total first"
	case errors.Is(err, worksheet.ErrNotSelecting):
		return "No total is waiting for rows"
	case errors.Is(err, worksheet.ErrCancelDisabled):
		return "Selection cannot be cancelled; confirm the total instead"
	case errors.Is(err, worksheet.ErrExportInFlight):
		return "An export is already in progress"
	case errors.Is(err, rows.ErrPositionOutOfRange):
		return "Row not found"
	case errors.Is(err, images.ErrImageLoad):
		return "an image could not be loaded"
	default:
		return err.Error()
	}
}
