package forms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/go-chi/chi/v5"
)

func setupTestRouter(t *testing.T) (*testEnv, chi.Router) {
	t.Helper()

	env := setupTestService(t)
	r := chi.NewRouter()
	NewHandler(env.svc, env.users, logger.NewNoopLogger()).RegisterRoutes(r)
	return env, r
}

func (e *testEnv) token(t *testing.T, username string) string {
	t.Helper()

	e.user(t, username)
	session, err := e.users.Authenticate(context.Background(), username, "secret1")
	if err != nil {
		t.Fatalf("Failed to authenticate %s: %v", username, err)
	}
	return session.Token
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerFormLifecycle(t *testing.T) {
	env, r := setupTestRouter(t)
	alice := env.token(t, "alice")
	bob := env.token(t, "bob")

	rec := do(r, http.MethodPost, "/forms", "", `{"title":"Survey"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	body := `{"title":"Survey","expiresAt":"2999-01-01T00:00:00","fields":[{"label":"Name","fieldType":"TEXT","fieldOrder":1}]}`
	rec = do(r, http.MethodPost, "/forms", alice, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var created Form
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode form: %v", err)
	}
	if created.CreatorUsername != "alice" || len(created.Fields) != 1 {
		t.Errorf("created = %+v, want alice with 1 field", created)
	}
	if !strings.Contains(rec.Body.String(), `"responseCount":0`) {
		t.Errorf("body %s lacks responseCount", rec.Body.String())
	}

	path := fmt.Sprintf("/forms/%d", created.ID)

	rec = do(r, http.MethodGet, path, "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = do(r, http.MethodGet, fmt.Sprintf("/forms/public/%d", created.ID), "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("public get status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = do(r, http.MethodPut, path, bob, `{"title":"Mine now"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("foreign update status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := rec.Body.String(); got != "Error: You don't have permission to update this form" {
		t.Errorf("foreign update body = %q", got)
	}

	rec = do(r, http.MethodPut, path, alice, `{"title":"Renamed"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"title":"Renamed"`) {
		t.Errorf("update = %d %s, want 200 with new title", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/forms/my-forms", alice, "")
	var mine []Form
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatalf("Failed to decode my-forms: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("len(my-forms) = %d, want 1", len(mine))
	}

	rec = do(r, http.MethodGet, "/forms/public", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("public list status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = do(r, http.MethodDelete, path, alice, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Form deleted successfully" {
		t.Errorf("delete = %d %q, want 200 Form deleted successfully", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, path, "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerGetNotFound(t *testing.T) {
	_, r := setupTestRouter(t)

	for _, path := range []string{"/forms/999999", "/forms/public/999999", "/forms/abc"} {
		rec := do(r, http.MethodGet, path, "", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusNotFound)
		}
	}
}
