package dto

import "net/http"

// HTTP-layer error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when body parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing from the map resolve to 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeInternal:    http.StatusInternalServerError,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations
	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":        http.StatusUnprocessableEntity,
	"INVALID_RECEIVED_QUANTITY": http.StatusUnprocessableEntity,
	"CROSS_BRANCH_VIOLATION":    http.StatusUnprocessableEntity,
	"INTEGRITY_VIOLATION":       http.StatusUnprocessableEntity,
	"MISSING_RATE":              http.StatusUnprocessableEntity,
	"MISSING_COST":              http.StatusUnprocessableEntity,

	// Input validation
	"INVALID_INPUT":           http.StatusBadRequest,
	"INVALID_QUANTITY":        http.StatusBadRequest,
	"INVALID_DELTA":           http.StatusBadRequest,
	"INVALID_COST":            http.StatusBadRequest,
	"INVALID_RATE":            http.StatusBadRequest,
	"INVALID_ITEM_KIND":       http.StatusBadRequest,
	"INVALID_MOVEMENT_TYPE":   http.StatusBadRequest,
	"INVALID_SOURCE_TYPE":     http.StatusBadRequest,
	"INVALID_SOURCE_ID":       http.StatusBadRequest,
	"INVALID_STATUS":          http.StatusBadRequest,
	"INVALID_BRANCH":          http.StatusBadRequest,
	"INVALID_ITEM":            http.StatusBadRequest,
	"INVALID_ACTOR":           http.StatusBadRequest,
	"INVALID_CREATOR":         http.StatusBadRequest,
	"INVALID_RECIPE":          http.StatusBadRequest,
	"EMPTY_TRANSFER":          http.StatusBadRequest,
	"EMPTY_RECIPE":            http.StatusBadRequest,
	"EMPTY_CONSUMPTION":       http.StatusBadRequest,
	"EMPTY_STOCK_TAKING":      http.StatusBadRequest,
	"DUPLICATE_ITEM":          http.StatusBadRequest,
	"INVALID_BATCH_NUMBER":    http.StatusBadRequest,
	"INVALID_TAKING_NUMBER":   http.StatusBadRequest,
	"INVALID_TRANSFER_NUMBER": http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
