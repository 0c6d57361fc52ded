package response

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"jobportal/internal/contextutils"
	"jobportal/internal/models"
	"jobportal/internal/services"
)

// APIVersion is stamped on every response envelope
const APIVersion = "v1"

// APIResponse is the standard envelope for every endpoint
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Version   string      `json:"version"`
}

// APIError is the client-facing error body
type APIError struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Fields  []services.FieldError  `json:"fields,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Builder writes envelopes and logs write failures
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a response builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// WriteSuccess writes a success envelope with the given status code
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	b.write(w, r, statusCode, &APIResponse{
		Success: true,
		Data:    data,
	})
}

// WriteError translates a service error into the envelope. Unknown errors
// become opaque 500s.
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := services.GetServiceError(err)
	if serviceErr.GetStatusCode() >= http.StatusInternalServerError {
		b.logger.Error("Request failed",
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		// Internal detail stays in the logs.
		serviceErr = services.NewInternalError("Internal server error")
	}

	b.write(w, r, serviceErr.GetStatusCode(), &APIResponse{
		Success: false,
		Error: &APIError{
			Type:    serviceErr.Type,
			Message: serviceErr.Message,
			Code:    serviceErr.Code,
			Fields:  serviceErr.Fields,
			Details: serviceErr.Details,
		},
	})
}

func (b *Builder) write(w http.ResponseWriter, r *http.Request, statusCode int, resp *APIResponse) {
	resp.RequestID = contextutils.GetRequestID(r.Context())
	resp.Timestamp = time.Now().UTC()
	resp.Version = APIVersion

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// WritePage writes a paginated list with count/next/previous links derived
// from the request URL.
func WritePage[T any](b *Builder, w http.ResponseWriter, r *http.Request, results []T, count int64, params models.PageParams) {
	var next, previous *string
	if models.HasNext(params, count) {
		next = pageURL(r, params.Page+1)
	}
	if models.HasPrevious(params) {
		previous = pageURL(r, params.Page-1)
	}
	b.WriteSuccess(w, r, http.StatusOK, models.NewPage(results, count, next, previous))
}

// pageURL rebuilds the request URL pointing at another page. Page one drops
// the page parameter entirely.
func pageURL(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	full := scheme + "://" + r.Host + u.String()
	return &full
}
