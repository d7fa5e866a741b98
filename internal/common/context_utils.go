package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	// UserIDKey carries the authenticated principal's id in the request
	// context. Services compare it against owner ids by value.
	UserIDKey contextKey = "user_id"
)

// UserIDFromContext extracts the authenticated principal id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return &resp
}

// HTTPStatus maps an error kind to the status code the API contract uses.
// Conflicts surface as 400 like invalid input; the kind stays distinct in
// the body's error code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the standardized error envelope for a service error.
func RespondError(c echo.Context, err error) error {
	return c.JSON(HTTPStatus(err), CreateErrorResponse(KindOf(err).String(), MessageOf(err)))
}

// ParseID parses a positive integer path parameter.
func ParseID(idStr string, fieldName string) (int64, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return 0, NewInvalidInput(fmt.Sprintf("%s is required", fieldName))
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewInvalidInput(fmt.Sprintf("%s must be a positive integer", fieldName))
	}
	return id, nil
}

// ParseQuantity decodes a raw JSON quantity value. A string-typed value is
// rejected outright, even when it looks numeric.
func ParseQuantity(raw json.RawMessage) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return 0, NewInvalidInput("quantity is required")
	}
	if trimmed[0] == '"' {
		return 0, NewInvalidInput("quantity field cannot be of type string")
	}
	var quantity int
	if err := json.Unmarshal(trimmed, &quantity); err != nil {
		return 0, NewInvalidInput("quantity must be an integer")
	}
	return quantity, nil
}

// ValidateQuantityBounds enforces the configured quantity range.
func ValidateQuantityBounds(quantity, maxQuantity int) error {
	if quantity < 0 {
		return NewInvalidInput("quantity cannot be negative")
	}
	if quantity > maxQuantity {
		return NewInvalidInput(fmt.Sprintf("quantity cannot exceed %d", maxQuantity))
	}
	return nil
}
