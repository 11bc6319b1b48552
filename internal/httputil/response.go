// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package httputil writes the JSON envelopes shared by the handlers and
// the middleware: {"data": ...} on success and {"error": {...}} otherwise.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"recree/internal/apperrors"
	"recree/internal/validate"
)

// DataResponse is the success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorEnvelope is the failure envelope.
type ErrorEnvelope struct {
	Error ErrorResponse `json:"error"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps data in the success envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, DataResponse{Data: data})
}

// WriteCode writes an error envelope with an explicit code and message.
func WriteCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, ErrorEnvelope{Error: ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: chimw.GetReqID(r.Context()),
	}})
}

// WriteError maps err onto a status code and error envelope. Validation
// failures list the offending fields. Anything that is not an application
// error is logged and reported as an opaque internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := chimw.GetReqID(r.Context())

	var vErr *validate.ValidationError
	if errors.As(err, &vErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorEnvelope{Error: ErrorResponse{
			Code:      "VALIDATION_ERROR",
			Message:   "request validation failed",
			Fields:    vErr.Fields(),
			RequestID: requestID,
		}})
		return
	}

	if errors.Is(err, validate.ErrMalformedBody) {
		WriteCode(w, r, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteCode(w, r, appErr.Status, appErr.Code, appErr.Message)
		return
	}

	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "internal error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID,
		)
		WriteCode(w, r, status, "INTERNAL_ERROR", "an error occurred")
		return
	}
	WriteCode(w, r, status, sentinelCode(err), err.Error())
}

// sentinelCode names bare sentinel errors that were never wrapped in an
// AppError.
func sentinelCode(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return "ALREADY_EXISTS"
	case errors.Is(err, apperrors.ErrHasChildren):
		return "HAS_CHILDREN"
	case errors.Is(err, apperrors.ErrInvalidHierarchy):
		return "INVALID_HIERARCHY"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, apperrors.ErrForbidden):
		return "FORBIDDEN"
	default:
		return "INVALID_INPUT"
	}
}

// ParseUUID parses raw as a UUID. On failure it writes a 400 response and
// returns false so the caller can return early.
func ParseUUID(w http.ResponseWriter, r *http.Request, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteCode(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid id: "+raw)
		return uuid.Nil, false
	}
	return id, true
}
