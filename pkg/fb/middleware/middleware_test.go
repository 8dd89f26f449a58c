package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubValidator struct {
	tokens map[string]string
}

func (s stubValidator) ValidateToken(ctx context.Context, token string) (string, error) {
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r.Context())))
	})
}

func TestRequireAuth(t *testing.T) {
	mw := RequireAuth(stubValidator{tokens: map[string]string{"good": "7"}})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer good", http.StatusOK, "7"},
		{"lowercase scheme", "bearer good", http.StatusOK, "7"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/forms/my-forms", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			mw(echoUserID()).ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	mw := OptionalAuth(stubValidator{tokens: map[string]string{"good": "3"}})

	tests := []struct {
		name     string
		header   string
		wantBody string
	}{
		{"anonymous", "", ""},
		{"valid", "Bearer good", "3"},
		{"invalid continues anonymously", "Bearer bad", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/responses/submit/1", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			mw(echoUserID()).ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		remoteAddr string
		want       string
	}{
		{"peer address", "", "192.0.2.10:5123", "192.0.2.10"},
		{"forwarded single", "203.0.113.5", "10.0.0.1:80", "203.0.113.5"},
		{"forwarded chain", "203.0.113.5, 198.51.100.2", "10.0.0.1:80", "203.0.113.5"},
		{"ipv6 peer", "", "[2001:db8::1]:443", "2001:db8::1"},
		{"peer without port", "", "192.0.2.10", "192.0.2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("preflight from allowed origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/forms", nil)
		r.Header.Set("Origin", "https://app.example")
		r.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()

		CORS([]string{"https://app.example"})(next).ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("disallowed origin gets no headers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/forms/public", nil)
		r.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()

		CORS([]string{"https://app.example"})(next).ServeHTTP(w, r)

		if w.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("wildcard", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/forms/public", nil)
		r.Header.Set("Origin", "https://any.example")
		w := httptest.NewRecorder()

		CORS([]string{"*"})(next).ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://any.example" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})
}
