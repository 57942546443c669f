package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/famiglia/internal/auth"
	"github.com/mmynk/famiglia/internal/models"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def", "abc.def", nil},
		{"bearer abc", "abc", nil},
		{"", "", auth.ErrMissingToken},
		{"Basic abc", "", auth.ErrInvalidToken},
		{"Bearer", "", auth.ErrInvalidToken},
		{"Bearer ", "", auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("bearerToken(%q) error = %v, want %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), "user-1", "anna@example.com")
	if GetUserID(ctx) != "user-1" || GetEmail(ctx) != "anna@example.com" {
		t.Errorf("unexpected context values: %q %q", GetUserID(ctx), GetEmail(ctx))
	}
	if GetUserID(context.Background()) != "" {
		t.Error("expected empty user id on bare context")
	}
}

func TestIsServerFault(t *testing.T) {
	if !isServerFault(connect.CodeInternal) {
		t.Error("internal should be a server fault")
	}
	if isServerFault(connect.CodeNotFound) || isServerFault(connect.CodePermissionDenied) {
		t.Error("client errors should not be server faults")
	}
}

func TestMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.requests.WithLabelValues("/famiglia.v1.GroupService/GetGroup", "ok").Inc()
	m.requests.WithLabelValues("/famiglia.v1.GroupService/GetGroup", "not_found").Inc()
	m.duration.WithLabelValues("/famiglia.v1.GroupService/GetGroup").Observe(0.01)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/famiglia.v1.GroupService/GetGroup", "ok")); got != 1 {
		t.Errorf("ok counter = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.requests); n != 2 {
		t.Errorf("expected 2 counter series, got %d", n)
	}
}

func TestRequireAuth_TokenRoundTrip(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour)
	token, err := manager.Generate(&models.User{ID: "user-1", Email: "anna@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	raw, err := bearerToken(header.Get("Authorization"))
	if err != nil {
		t.Fatalf("bearerToken failed: %v", err)
	}
	claims, err := manager.Validate(raw)
	if err != nil || claims.UserID != "user-1" {
		t.Errorf("Validate() = %+v, %v", claims, err)
	}
}
