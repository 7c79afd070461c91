package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jackzampolin/formassist/internal/auth"
	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/svcctx"
)

// multipartMemory is how much of an upload is held in memory before spilling
// to temp files. The total size is capped by the server's body limit.
const multipartMemory = 32 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// ValidationErrorResponse is returned with 422 when a response fails schema
// validation.
type ValidationErrorResponse struct {
	Error  string             `json:"error"`
	Fields []forms.FieldError `json:"fields"`
}

// writeAttachment sends data as a download.
func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// decodeJSON reads a JSON request body into v, answering 400 (or 413) on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// readUpload returns the contents and name of a multipart file field.
func readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
				return nil, "", false
			}
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
			return nil, "", false
		}
	}
	f, fh, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing file field %q", field))
		return nil, "", false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", field, err))
		return nil, "", false
	}
	return data, fh.Filename, true
}

// requireSession wraps next with the auth service's session check.
func requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := svcctx.AuthFrom(r.Context())
		if a == nil {
			writeError(w, http.StatusServiceUnavailable, "auth not initialized")
			return
		}
		a.RequireSession(next)(w, r)
	}
}

// requireAdmin wraps next with the auth service's admin check.
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := svcctx.AuthFrom(r.Context())
		if a == nil {
			writeError(w, http.StatusServiceUnavailable, "auth not initialized")
			return
		}
		a.RequireAdmin(next)(w, r)
	}
}

// sessionFrom returns the session attached by requireSession/requireAdmin.
func sessionFrom(r *http.Request) *auth.Session {
	sess, _ := auth.SessionFromContext(r.Context())
	return sess
}

// storeFrom returns the form store or answers 503.
func storeFrom(w http.ResponseWriter, r *http.Request) (forms.Store, bool) {
	store := svcctx.StoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "form store not initialized")
		return nil, false
	}
	return store, true
}

// writeStoreError maps store errors to status codes. what names the missing
// record, e.g. "Form".
func writeStoreError(w http.ResponseWriter, err error, what string) {
	var verr *forms.ValidationError
	switch {
	case errors.Is(err, forms.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, forms.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Error: "validation failed", Fields: verr.Fields})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// required answers 400 when s is blank.
func required(w http.ResponseWriter, s, msg string) bool {
	if strings.TrimSpace(s) == "" {
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}
