package dto

import (
	"time"

	"github.com/artsapp/builder/pkg/errors"
)

// APIResponse is the envelope of every BFF answer. Exactly one of Data and
// Error is set.
// APIResponse 通用 API 响应结构
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorDTO   `json:"error,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorDTO carries the error code for the client and the message in the
// session language. MessageKey lets the client pick its own translation.
type ErrorDTO struct {
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	MessageKey  string                 `json:"message_key,omitempty"`
	Description string                 `json:"description,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

func envelope(traceID string) *APIResponse {
	return &APIResponse{TraceID: traceID, Timestamp: time.Now().Unix()}
}

// SuccessResponse wraps data
func SuccessResponse(data interface{}, traceID string) *APIResponse {
	resp := envelope(traceID)
	resp.Success = true
	resp.Data = data
	return resp
}

// ErrorResponse wraps err with its already localized message. Errors outside
// the builder taxonomy are reported as internal errors without details.
func ErrorResponse(err error, message, traceID string) *APIResponse {
	resp := envelope(traceID)
	resp.Error = &ErrorDTO{Code: string(errors.CodeInternal), Message: message, MessageKey: "error.internal"}
	if be, ok := errors.AsBuilderError(err); ok {
		resp.Error.Code = string(be.Code())
		resp.Error.MessageKey = be.MessageKey()
		resp.Error.Description = be.Description()
		resp.Error.Details = be.Metadata()
	}
	return resp
}
