package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	// Detail is the backend-supplied error message, empty when the response
	// carried none.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Notice is the user-facing notification category for a failed request.
type Notice string

const (
	NoticeGeneric   Notice = "generic"
	NoticeServer    Notice = "server"
	NoticeNotFound  Notice = "not_found"
	NoticeForbidden Notice = "forbidden"
	NoticeTimeout   Notice = "timeout"
	NoticeNetwork   Notice = "network"
	NoticeDetail    Notice = "detail"
)

// noticeMessages are the fixed user-facing texts per category. NoticeDetail
// carries the backend message verbatim instead.
var noticeMessages = map[Notice]string{
	NoticeGeneric:   "Something went wrong. Please try again.",
	NoticeServer:    "Server error. Please try again later.",
	NoticeNotFound:  "The requested resource was not found.",
	NoticeForbidden: "Access denied.",
	NoticeTimeout:   "Request timeout. Please check your connection.",
	NoticeNetwork:   "Network error. Please check your connection.",
}

// Notifier receives one user-facing notification per failed request.
// Implementations typically raise a toast; the no-op default discards them.
type Notifier interface {
	Notify(category Notice, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(category Notice, message string)

func (f NotifierFunc) Notify(category Notice, message string) { f(category, message) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notice, string) {}

// Classify maps a request failure to its notification category and message.
// Backend responses carrying a detail message are surfaced verbatim; all
// other failures get a fixed message per class.
func Classify(err error) (Notice, string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode >= 500:
			return NoticeServer, noticeMessages[NoticeServer]
		case apiErr.StatusCode == http.StatusNotFound:
			return NoticeNotFound, noticeMessages[NoticeNotFound]
		case apiErr.StatusCode == http.StatusForbidden:
			return NoticeForbidden, noticeMessages[NoticeForbidden]
		case apiErr.Detail != "":
			return NoticeDetail, apiErr.Detail
		default:
			return NoticeGeneric, noticeMessages[NoticeGeneric]
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NoticeTimeout, noticeMessages[NoticeTimeout]
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NoticeTimeout, noticeMessages[NoticeTimeout]
		}
		return NoticeNetwork, noticeMessages[NoticeNetwork]
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return NoticeNetwork, noticeMessages[NoticeNetwork]
	}

	return NoticeGeneric, noticeMessages[NoticeGeneric]
}

// ValidationError reports client-side form validation failures, keyed by
// field name. It never reaches the network layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for _, msg := range e.Fields {
		return msg
	}
	return "validation failed"
}

// FieldMessage returns the message for a field, or "" when the field passed.
func (e *ValidationError) FieldMessage(field string) string {
	return e.Fields[field]
}
