package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/nconklindev/stylematch/internal/compare"
	"github.com/nconklindev/stylematch/internal/export"
	"github.com/nconklindev/stylematch/internal/logging"
	"github.com/nconklindev/stylematch/internal/table"

	"github.com/dustin/go-humanize"
)

// CompareResponse is the JSON body returned by POST /api/compare.
type CompareResponse struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Count     int    `json:"count"`
}

// ErrorResponse is the JSON body for failed requests outside the comparison itself.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleCompare reads the two uploaded files and runs a comparison in the caller's session.
// Form fields: file1 (primary table), file2 (reference table).
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	limit := 2*s.cfg.MaxFileSize + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "files too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	primary, err := formFile(r, "file1", s.cfg.MaxFileSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reference, err := formFile(r, "file2", s.cfg.MaxFileSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("comparison requested",
		"primary_size", humanize.Bytes(uint64(len(primary))),
		"reference_size", humanize.Bytes(uint64(len(reference))),
	)

	session := s.sessionFor(w, r)
	result, err := session.Run(primary, reference, nil)
	status := compare.StatusFor(result, err)

	code := http.StatusOK
	if err != nil {
		code = statusCode(err)
	}

	writeJSONStatus(w, code, CompareResponse{
		SessionID: session.ID,
		Kind:      status.Kind.String(),
		Message:   status.Message,
		Hint:      status.Hint,
		Count:     status.Count,
	})
}

// handleExport streams the caller's last non-empty result in ?format=xlsx|csv|txt.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := s.lookupSession(r)
	if session == nil {
		writeError(w, http.StatusConflict, compare.StatusFor(nil, export.ErrNoData).Message)
		return
	}

	payload, err := session.Export(format)
	if err != nil {
		if errors.Is(err, export.ErrNoData) {
			writeError(w, http.StatusConflict, compare.StatusFor(nil, err).Message)
			return
		}
		logging.FromContext(r.Context()).Error("export failed", "session", session.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(payload.Data)))
	_, _ = w.Write(payload.Data)
}

// formFile returns the named upload, or nil when the field was not sent.
func formFile(r *http.Request, field string, maxSize int64) ([]byte, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid upload %s: %w", field, err)
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, fmt.Errorf("%s is larger than %s", header.Filename, humanize.Bytes(uint64(maxSize)))
	}
	return readAll(file)
}

func readAll(file multipart.File) ([]byte, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func statusCode(err error) int {
	var (
		parseErr *table.ParseError
		colErr   *compare.ColumnNotFoundError
	)
	switch {
	case errors.Is(err, compare.ErrInputMissing):
		return http.StatusBadRequest
	case errors.As(err, &parseErr), errors.As(err, &colErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSONStatus(w, code, ErrorResponse{Error: msg})
}
