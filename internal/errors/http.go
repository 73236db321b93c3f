package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Messages produced by the shared HTTP error policy.
const (
	MsgUnauthorized = "invalid credentials or session expired"
	MsgForbidden    = "insufficient permission"
	MsgInvalidData  = "invalid data"
	MsgUnreachable  = "could not connect to server"
	MsgCanceled     = "request canceled"
)

// ResponseDetails is what the server reported about a failed exchange.
type ResponseDetails struct {
	// Status is the HTTP status code of the reply.
	Status int
	// Message is the envelope message, possibly empty.
	Message string
	// Errors are field-level messages from a 400 envelope.
	Errors []string
}

// Policy maps failed HTTP exchanges onto AppErrors. Every gateway uses the same
// mapping; the only per-gateway input is how a 404 is worded.
type Policy struct {
	// NotFoundMessage is used for 404 replies. When empty a 404 is treated like
	// any other unexpected status.
	NotFoundMessage string
}

// FromResponse reduces a non-2xx reply to exactly one error kind and one message.
func (p Policy) FromResponse(d ResponseDetails) *AppError {
	e := &AppError{Status: d.Status}
	switch {
	case d.Status == http.StatusUnauthorized:
		e.Code, e.Message = ErrCodeUnauthorized, MsgUnauthorized
	case d.Status == http.StatusForbidden:
		e.Code, e.Message = ErrCodeForbidden, MsgForbidden
	case d.Status == http.StatusBadRequest:
		e.Code = ErrCodeValidation
		e.Message = firstNonEmpty(d.Message, MsgInvalidData)
		if fields := nonEmpty(d.Errors); len(fields) > 0 {
			e.Message += ": " + strings.Join(fields, ", ")
		}
	case d.Status == http.StatusNotFound && p.NotFoundMessage != "":
		e.Code, e.Message = ErrCodeNotFound, p.NotFoundMessage
	case d.Status == 0:
		e.Code, e.Message = ErrCodeUnreachable, MsgUnreachable
	default:
		e.Code = ErrCodeServer
		e.Message = firstNonEmpty(d.Message, fmt.Sprintf("server error: %d", d.Status))
	}
	return e
}

// FromTransport maps an error returned before any response arrived.
// Context cancellation is reported as canceled; everything else is unreachable.
func FromTransport(err error) *AppError {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: MsgCanceled, Cause: err}
	}
	return &AppError{Code: ErrCodeUnreachable, Message: MsgUnreachable, Cause: err}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
