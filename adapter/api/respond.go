package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	exportDomain "github.com/felixgeelhaar/mindful/internal/export/domain"
	goalDomain "github.com/felixgeelhaar/mindful/internal/goals/domain"
	notificationDomain "github.com/felixgeelhaar/mindful/internal/notifications/domain"
	practiceDomain "github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/felixgeelhaar/mindful/internal/sounds"
)

const maxBodyBytes = 1 << 20

// APIError is an error with an HTTP status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func badRequest(format string, args ...any) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

var notFound = []error{
	practiceDomain.ErrSessionNotFound,
	practiceDomain.ErrTagNotFound,
	goalDomain.ErrGoalNotFound,
}

var invalid = []error{
	practiceDomain.ErrInvalidPlannedDuration,
	practiceDomain.ErrInvalidActualDuration,
	practiceDomain.ErrEmptyTagName,
	practiceDomain.ErrInvalidTagColor,
	goalDomain.ErrInvalidGoalType,
	goalDomain.ErrInvalidTargetValue,
	goalDomain.ErrInvalidEndDate,
	notificationDomain.ErrInvalidReminderTime,
	exportDomain.ErrUnsupportedFormat,
	sounds.ErrUnknownCategory,
}

// statusFor maps an application error to its HTTP status.
func statusFor(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range invalid {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// fail writes err with its mapped status. Internal errors are logged and
// their details withheld.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, status, "internal server error")
		return
	}

	message := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		message = apiErr.Message
	}
	writeError(w, status, message)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is required")
		}
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, badRequest("invalid %s %q", name, r.PathValue(name))
	}
	return id, nil
}

// queryValue returns the first non-empty value among the given names.
func queryValue(r *http.Request, names ...string) string {
	q := r.URL.Query()
	for _, n := range names {
		if v := q.Get(n); v != "" {
			return v
		}
	}
	return ""
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	return n, nil
}

func queryBool(r *http.Request, name string, fallback bool) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, badRequest("%s must be a boolean", name)
	}
	return b, nil
}

type okResponse struct {
	OK bool `json:"ok"`
}
