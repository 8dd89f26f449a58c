package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func setupTestRouter(t *testing.T) (chi.Router, Service) {
	t.Helper()

	svc := setupTestService(t)
	r := chi.NewRouter()
	NewHandler(svc, newTestLogger()).RegisterRoutes(r)
	return r, svc
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleRegister(t *testing.T) {
	r, _ := setupTestRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "registers user",
			body:       `{"username":"alice","email":"alice@example.com","password":"secret1"}`,
			wantStatus: http.StatusOK,
			wantBody:   "User registered successfully!",
		},
		{
			name:       "duplicate username",
			body:       `{"username":"alice","email":"other@example.com","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Error: Username is already taken!",
		},
		{
			name:       "duplicate email",
			body:       `{"username":"bob","email":"alice@example.com","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Error: Email is already in use!",
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Error: invalid JSON body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(r, http.MethodPost, "/auth/register", tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Body.String(); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	r, _ := setupTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/auth/register", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Failed to register: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Error("token is empty")
	}
	if resp.Type != "Bearer" {
		t.Errorf("type = %q, want %q", resp.Type, "Bearer")
	}
	if resp.User.Username != "alice" || resp.User.Role != RoleUser {
		t.Errorf("user = %+v, want alice/USER", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("login response leaks the password hash")
	}

	rec = doJSON(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad login status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := rec.Body.String(); got != "Error: Bad credentials" {
		t.Errorf("bad login body = %q, want %q", got, "Error: Bad credentials")
	}
}
