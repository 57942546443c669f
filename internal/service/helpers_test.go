package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/famiglia/internal/events"
	"github.com/mmynk/famiglia/internal/middleware"
	"github.com/mmynk/famiglia/internal/storage/sqlite"
	"github.com/mmynk/famiglia/pkg/api"
	"github.com/mmynk/famiglia/pkg/api/apiconnect"
)

// testUserHeader carries the caller's user ID in tests, in place of a JWT.
const testUserHeader = "X-Test-User"

const (
	ownerID    = "user-owner"
	memberID   = "user-member"
	outsiderID = "user-outsider"
)

// testAuthInterceptor returns a Connect interceptor that sets the test user ID in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, userID+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

// asUser makes a client send every request as userID.
func asUser(userID string) connect.ClientOption {
	return connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set(testUserHeader, userID)
			return next(ctx, req)
		}
	}))
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingEmitter) Emit(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEmitter) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fakeExtractor struct {
	mu   sync.Mutex
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(context.Context, string, []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.err
}

func (f *fakeExtractor) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type testServer struct {
	store     *sqlite.SQLiteStore
	url       string
	emitter   *recordingEmitter
	extractor *fakeExtractor
	metrics   *SettlementMetrics
}

type clients struct {
	groups      apiconnect.GroupServiceClient
	expenses    apiconnect.ExpenseServiceClient
	settlements apiconnect.SettlementServiceClient
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestServer creates a test server with a temporary SQLite database
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "famiglia-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	ts := &testServer{
		store:     store,
		emitter:   &recordingEmitter{},
		extractor: &fakeExtractor{text: "TOTALE 42,50"},
		metrics:   NewSettlementMetrics(prometheus.NewRegistry()),
	}

	// Create services and handlers with test auth interceptor
	logger := discardLogger()
	authInterceptor := connect.WithInterceptors(testAuthInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, logger), authInterceptor))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, ts.extractor, logger), authInterceptor))
	mux.Handle(apiconnect.NewSettlementServiceHandler(
		NewSettlementService(store, ts.emitter, ts.metrics, logger),
		authInterceptor,
	))

	server := httptest.NewServer(mux)
	ts.url = server.URL

	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})
	return ts
}

func (ts *testServer) clientsFor(userID string) clients {
	opt := asUser(userID)
	return clients{
		groups:      apiconnect.NewGroupServiceClient(http.DefaultClient, ts.url, opt),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, ts.url, opt),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, ts.url, opt),
	}
}

// createGroup creates a group owned by ownerID and returns it with the owner's member row.
func createGroup(t *testing.T, c clients, name string) (*api.Group, *api.Member) {
	t.Helper()
	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group, resp.Msg.Owner
}

func createRecurring(t *testing.T, c clients, groupID string, in api.RecurringExpenseInput) *api.RecurringExpense {
	t.Helper()
	resp, err := c.expenses.CreateRecurringExpense(context.Background(), connect.NewRequest(&api.CreateRecurringExpenseRequest{
		GroupID:               groupID,
		RecurringExpenseInput: in,
	}))
	if err != nil {
		t.Fatalf("CreateRecurringExpense(%s) failed: %v", in.Name, err)
	}
	return resp.Msg.Expense
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("code: expected %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }
