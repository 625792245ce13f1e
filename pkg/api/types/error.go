package types

import (
	"encoding/json"
	"net/http"
)

// Error messages returned in ErrorResponse.Error.
const (
	MsgMissingIngredients  = "Missing ingredients in request body"
	MsgIngredientsNotList  = "Ingredients must be a non-empty list"
	MsgIngredientNotString = "Each ingredient must be a string"
	MsgTooManyIngredients  = "Too many ingredients"
	MsgBodyTooLarge        = "Request body too large"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgNotFound            = "Not found"
	MsgInvalidQuery        = "Invalid query parameter"
	MsgHistoryUnavailable  = "History is not enabled"
	MsgInternal            = "Internal server error"
	MsgTimeout             = "Request timeout"
	MsgRateLimited         = "Too many requests"
	MsgOverloaded          = "Server is busy"
	MsgUnauthorized        = "Unauthorized"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewErrorResponse creates an ErrorResponse without detail.
func NewErrorResponse(msg string) *ErrorResponse {
	return &ErrorResponse{Error: msg}
}

// NewInternalError creates the 500 body, carrying detail in Message.
func NewInternalError(detail string) *ErrorResponse {
	return &ErrorResponse{Error: MsgInternal, Message: detail}
}

// WriteJSON writes body as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError writes an ErrorResponse with msg.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, NewErrorResponse(msg))
}

// WriteMethodNotAllowed writes a 405 and the Allow header.
func WriteMethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	WriteError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}
