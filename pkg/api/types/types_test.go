package types

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"ingredient-scout/scout/pkg/conflict"
)

func TestParseAnalyzeRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		max     int
		want    []string
		wantMsg string
	}{
		{name: "valid", body: `{"ingredients": ["retinol", "Vitamin C"]}`, want: []string{"retinol", "Vitamin C"}},
		{name: "extra fields ignored", body: `{"ingredients": ["aha"], "skin": "dry"}`, want: []string{"aha"}},
		{name: "whitespace kept", body: `{"ingredients": ["  Niacinamide "]}`, want: []string{"  Niacinamide "}},
		{name: "empty strings allowed", body: `{"ingredients": [""]}`, want: []string{""}},
		{name: "at the limit", body: `{"ingredients": ["a", "b"]}`, max: 2, want: []string{"a", "b"}},
		{name: "empty body", body: ``, wantMsg: MsgMissingIngredients},
		{name: "blank body", body: "  \n", wantMsg: MsgMissingIngredients},
		{name: "malformed", body: `{"ingredients": [`, wantMsg: MsgMissingIngredients},
		{name: "not json", body: `ingredients=retinol`, wantMsg: MsgMissingIngredients},
		{name: "trailing garbage", body: `{"ingredients": ["retinol"]} x`, wantMsg: MsgMissingIngredients},
		{name: "null body", body: `null`, wantMsg: MsgMissingIngredients},
		{name: "array body", body: `["retinol"]`, wantMsg: MsgMissingIngredients},
		{name: "string body", body: `"retinol"`, wantMsg: MsgMissingIngredients},
		{name: "missing key", body: `{"items": ["retinol"]}`, wantMsg: MsgMissingIngredients},
		{name: "empty object", body: `{}`, wantMsg: MsgMissingIngredients},
		{name: "empty list", body: `{"ingredients": []}`, wantMsg: MsgIngredientsNotList},
		{name: "null list", body: `{"ingredients": null}`, wantMsg: MsgIngredientsNotList},
		{name: "string instead of list", body: `{"ingredients": "retinol"}`, wantMsg: MsgIngredientsNotList},
		{name: "object instead of list", body: `{"ingredients": {"a": 1}}`, wantMsg: MsgIngredientsNotList},
		{name: "number element", body: `{"ingredients": ["retinol", 5]}`, wantMsg: MsgIngredientNotString},
		{name: "null element", body: `{"ingredients": [null]}`, wantMsg: MsgIngredientNotString},
		{name: "nested list element", body: `{"ingredients": [["retinol"]]}`, wantMsg: MsgIngredientNotString},
		{name: "too many", body: `{"ingredients": ["a", "b", "c"]}`, max: 2, wantMsg: MsgTooManyIngredients},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rerr := ParseAnalyzeRequest([]byte(tt.body), tt.max)

			if tt.wantMsg != "" {
				if rerr == nil {
					t.Fatalf("ParseAnalyzeRequest() = %v, want error %q", req, tt.wantMsg)
				}
				if rerr.Error() != tt.wantMsg {
					t.Errorf("error = %q, want %q", rerr.Error(), tt.wantMsg)
				}
				return
			}

			if rerr != nil {
				t.Fatalf("ParseAnalyzeRequest() error = %v", rerr)
			}
			if !reflect.DeepEqual(req.Ingredients, tt.want) {
				t.Errorf("Ingredients = %q, want %q", req.Ingredients, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, MsgIngredientsNotList)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got, want := strings.TrimSpace(rec.Body.String()), `{"error":"Ingredients must be a non-empty list"}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestWriteMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteMethodNotAllowed(rec, http.MethodPost, http.MethodOptions)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Header().Values("Allow"); !reflect.DeepEqual(got, []string{"POST", "OPTIONS"}) {
		t.Errorf("Allow = %v", got)
	}
}

func TestNewInternalError(t *testing.T) {
	b, err := json.Marshal(NewInternalError("boom"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"error":"Internal server error","message":"boom"}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestAnalyzeResponse_Shape(t *testing.T) {
	b, err := json.Marshal(AnalyzeResponse(conflict.Default().Evaluate([]string{"water"})))
	if err != nil {
		t.Fatal(err)
	}

	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatal(err)
	}
	if len(fields) != 3 {
		t.Errorf("fields = %v, want status, riskScore and summary only", fields)
	}
	for _, k := range []string{"status", "riskScore", "summary"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("missing field %q", k)
		}
	}
}
