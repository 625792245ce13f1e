package types

import (
	"bytes"
	"encoding/json"
)

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Ingredients []string `json:"ingredients"`
}

// RequestError is a rejected request body. Its message is one of the Msg*
// constants and is returned to the client as is.
type RequestError struct {
	Msg string
}

func (e *RequestError) Error() string {
	return e.Msg
}

func reject(msg string) *RequestError {
	return &RequestError{Msg: msg}
}

// ParseAnalyzeRequest validates body and extracts the ingredient list.
// Checks run in order: a JSON object with an "ingredients" key, a
// non-empty array, string elements, and at most maxIngredients entries
// (0 disables the limit).
func ParseAnalyzeRequest(body []byte, maxIngredients int) (*AnalyzeRequest, *RequestError) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, reject(MsgMissingIngredients)
	}

	// Unparseable bodies and JSON that is not an object (array, string,
	// null) both count as a missing payload.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, reject(MsgMissingIngredients)
	}

	raw, ok := fields["ingredients"]
	if !ok {
		return nil, reject(MsgMissingIngredients)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, reject(MsgIngredientsNotList)
	}

	ingredients := make([]string, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '"' {
			return nil, reject(MsgIngredientNotString)
		}
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, reject(MsgIngredientNotString)
		}
		ingredients = append(ingredients, s)
	}

	if maxIngredients > 0 && len(ingredients) > maxIngredients {
		return nil, reject(MsgTooManyIngredients)
	}

	return &AnalyzeRequest{Ingredients: ingredients}, nil
}
