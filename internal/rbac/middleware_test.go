package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scentdesk/scentdesk/internal/shared"
)

type staticResolver struct {
	perms map[int64][]string
}

func (s staticResolver) EffectivePermissions(_ context.Context, userID int64) ([]string, error) {
	return s.perms[userID], nil
}

func doRequest(t *testing.T, mw func(http.Handler) http.Handler, userID int64) int {
	t.Helper()
	var hit bool
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.WriteHeader(http.StatusOK)
	}))
	r := httptest.NewRequest("GET", "/", nil)
	if userID > 0 {
		ctx := shared.ContextWithSession(r.Context(), &shared.Session{UserID: userID})
		r = r.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code == http.StatusOK && !hit {
		t.Fatal("handler not reached despite 200")
	}
	return rec.Code
}

func TestRequireAny(t *testing.T) {
	m := Middleware{Service: staticResolver{perms: map[int64][]string{
		1: {"customers_view"},
		2: {"email_sending"},
	}}}

	mw := m.RequireAny("customers_view", "customers_edit")
	if code := doRequest(t, mw, 1); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := doRequest(t, mw, 2); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	if code := doRequest(t, mw, 0); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %d", code)
	}
}

func TestRequireAll(t *testing.T) {
	m := Middleware{Service: staticResolver{perms: map[int64][]string{
		1: {"customers_view", "customers_edit"},
		2: {"customers_view"},
	}}}

	mw := m.RequireAll("customers_view", "customers_edit")
	if code := doRequest(t, mw, 1); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := doRequest(t, mw, 2); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}
