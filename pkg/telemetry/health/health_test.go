package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"ingredient-scout/scout/pkg/conflict"
)

type brokenAnalyzer struct{}

func (brokenAnalyzer) Name() string { return "broken" }

func (brokenAnalyzer) Evaluate([]string) conflict.Verdict {
	return conflict.Verdict{Status: conflict.StatusDanger, RiskScore: 40}
}

func (b brokenAnalyzer) Assess(in []string) conflict.Assessment {
	return conflict.Assessment{Verdict: b.Evaluate(in), Engine: b.Name()}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestNew_DefaultTimeout(t *testing.T) {
	if got := New(0).timeout; got != DefaultCheckTimeout {
		t.Errorf("timeout = %v, want %v", got, DefaultCheckTimeout)
	}
	if got := New(time.Second).timeout; got != time.Second {
		t.Errorf("timeout = %v, want 1s", got)
	}
}

func TestChecker_RegisterUnregister(t *testing.T) {
	c := New(time.Second)
	c.Register("history", func(context.Context) error { return nil })
	c.Register("catalog", func(context.Context) error { return nil })
	c.Register("catalog", func(context.Context) error { return nil })

	if got, want := c.Names(), []string{"catalog", "history"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	c.Unregister("history")
	if got, want := c.Names(), []string{"catalog"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() after Unregister = %v, want %v", got, want)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantFailed []string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"catalog": CatalogCheck(conflict.Default()),
				"history": PingCheck(pingerFunc(func(context.Context) error { return nil })),
			},
			wantStatus: StatusReady,
		},
		{
			name: "one unhealthy",
			checks: map[string]CheckFunc{
				"catalog": CatalogCheck(conflict.Default()),
				"history": PingCheck(pingerFunc(func(context.Context) error { return errors.New("database is locked") })),
			},
			wantStatus: StatusDegraded,
			wantFailed: []string{"history"},
		},
		{
			name: "timeout",
			checks: map[string]CheckFunc{
				"slow": func(ctx context.Context) error {
					time.Sleep(time.Second)
					return nil
				},
			},
			wantStatus: StatusDegraded,
			wantFailed: []string{"slow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(50 * time.Millisecond)
			for name, check := range tt.checks {
				c.Register(name, check)
			}

			got := c.CheckReadiness(context.Background())
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if len(got.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(got.Checks), len(tt.checks))
			}
			for _, name := range tt.wantFailed {
				res := got.Checks[name]
				if res.Status != StatusUnhealthy || res.Message == "" {
					t.Errorf("check %q = %+v, want unhealthy with message", name, res)
				}
			}
		})
	}
}

func TestCheckReadiness_TimeoutMessage(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Register("stuck", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		return ctx.Err()
	})

	got := c.CheckReadiness(context.Background()).Checks["stuck"]
	if got.Message != ErrCheckTimeout.Error() {
		t.Errorf("Message = %q, want %q", got.Message, ErrCheckTimeout.Error())
	}
}

func TestCatalogCheck(t *testing.T) {
	if err := CatalogCheck(conflict.Default())(context.Background()); err != nil {
		t.Errorf("CatalogCheck(default) error = %v", err)
	}
	if err := CatalogCheck(conflict.NewSwappable(conflict.Default()))(context.Background()); err != nil {
		t.Errorf("CatalogCheck(swappable) error = %v", err)
	}
	if err := CatalogCheck(brokenAnalyzer{})(context.Background()); err == nil {
		t.Error("CatalogCheck(broken) error = nil")
	}
	if err := CatalogCheck(nil)(context.Background()); err == nil {
		t.Error("CatalogCheck(nil) error = nil")
	}
}

func TestLivenessHandler(t *testing.T) {
	handler := New(time.Second).LivenessHandler("Skincare Ingredient Scout API")

	tests := []struct {
		name     string
		method   string
		wantCode int
		wantBody string
	}{
		{
			name:     "GET",
			method:   http.MethodGet,
			wantCode: http.StatusOK,
			wantBody: `{"status":"healthy","service":"Skincare Ingredient Scout API"}`,
		},
		{
			name:     "HEAD has no body",
			method:   http.MethodHead,
			wantCode: http.StatusOK,
		},
		{
			name:     "POST not allowed",
			method:   http.MethodPost,
			wantCode: http.StatusMethodNotAllowed,
			wantBody: `{"error":"Method not allowed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(tt.method, "/api/health", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if got := rec.Body.String(); tt.wantBody != "" && got != tt.wantBody+"\n" {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
			if tt.method == http.MethodHead && rec.Body.Len() != 0 {
				t.Errorf("HEAD body = %q, want empty", rec.Body.String())
			}
		})
	}
}

func TestReadinessHandler(t *testing.T) {
	c := New(time.Second)
	healthy := true
	c.Register("history", func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("closed")
	})

	rec := httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthy status = %d, want 200", rec.Code)
	}

	var body Readiness
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != StatusReady || body.Checks["history"].Status != StatusOK {
		t.Errorf("body = %+v", body)
	}

	healthy = false
	rec = httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", rec.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.0", "abc123", "2026-01-01")(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Version != "1.2.0" || info.Commit != "abc123" || info.BuildTime != "2026-01-01" {
		t.Errorf("info = %+v", info)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion is empty")
	}
}
