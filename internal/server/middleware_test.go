package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/designcomputer/mysql-mcp/internal/auth"
	"github.com/designcomputer/mysql-mcp/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// recordedAuth captures what the downstream handler saw in its context.
type recordedAuth struct {
	ok   bool
	user string
	pass string
}

func recordAuthHandler(rec *recordedAuth) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.user, rec.pass, rec.ok = auth.GetBasicAuthCredentials(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// rpcRequest builds a POST carrying a minimal JSON-RPC body for the method.
func rpcRequest(method string) *http.Request {
	body := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":%q}`, method)
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

// clearDatabaseCredentials blanks MYSQL_USER and MYSQL_PASSWORD for the test
// so the middleware cannot fall back to ambient environment credentials.
func clearDatabaseCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("MYSQL_USER", "")
	t.Setenv("MYSQL_PASSWORD", "")
}

func TestBasicAuthMiddleware(t *testing.T) {
	t.Run("header credentials reach the context", func(t *testing.T) {
		clearDatabaseCredentials(t)
		var rec recordedAuth
		handler := basicAuthMiddleware()(recordAuthHandler(&rec))

		req := rpcRequest("tools/call")
		req.SetBasicAuth("testuser", "testpass")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !rec.ok || rec.user != "testuser" || rec.pass != "testpass" {
			t.Errorf("context credentials = (%q, %q, %v), want (testuser, testpass, true)", rec.user, rec.pass, rec.ok)
		}
	})

	t.Run("tools/call without credentials is rejected", func(t *testing.T) {
		clearDatabaseCredentials(t)
		handler := basicAuthMiddleware()(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, rpcRequest("tools/call"))

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if w.Header().Get("WWW-Authenticate") == "" {
			t.Error("WWW-Authenticate header missing from 401 response")
		}
	})

	t.Run("resources/read without credentials is rejected", func(t *testing.T) {
		clearDatabaseCredentials(t)
		handler := basicAuthMiddleware()(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, rpcRequest("resources/read"))

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("protocol methods pass without credentials", func(t *testing.T) {
		clearDatabaseCredentials(t)
		handler := basicAuthMiddleware()(okHandler())

		for _, method := range []string{"initialize", "tools/list", "resources/list"} {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, rpcRequest(method))
			if w.Code != http.StatusOK {
				t.Errorf("%s: status = %d, want 200", method, w.Code)
			}
		}
	})

	t.Run("environment credentials satisfy the check", func(t *testing.T) {
		t.Setenv("MYSQL_USER", "envuser")
		t.Setenv("MYSQL_PASSWORD", "envpass")

		// The environment only decides whether to 401; the per-call database
		// config reads the variables itself, so the context stays empty.
		var rec recordedAuth
		handler := basicAuthMiddleware()(recordAuthHandler(&rec))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, rpcRequest("tools/call"))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if rec.ok {
			t.Errorf("context credentials = (%q, %q), want none", rec.user, rec.pass)
		}
	})

	t.Run("header credentials beat environment credentials", func(t *testing.T) {
		t.Setenv("MYSQL_USER", "envuser")
		t.Setenv("MYSQL_PASSWORD", "envpass")

		var rec recordedAuth
		handler := basicAuthMiddleware()(recordAuthHandler(&rec))

		req := rpcRequest("tools/call")
		req.SetBasicAuth("headeruser", "headerpass")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if rec.user != "headeruser" || rec.pass != "headerpass" {
			t.Errorf("context credentials = (%q, %q), want header values", rec.user, rec.pass)
		}
	})

	t.Run("empty header credentials still count as presented", func(t *testing.T) {
		clearDatabaseCredentials(t)
		var rec recordedAuth
		handler := basicAuthMiddleware()(recordAuthHandler(&rec))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetBasicAuth("", "")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !rec.ok {
			t.Error("empty basic auth header should still populate the context")
		}
	})
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("disabled without configured origins", func(t *testing.T) {
		handler := corsMiddleware(nil)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want unset", got)
		}
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		handler := corsMiddleware([]string{"*"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
	})

	t.Run("origin matching", func(t *testing.T) {
		handler := corsMiddleware([]string{"http://example.com", "http://localhost:3000"})(okHandler())

		for _, tc := range []struct {
			origin string
			want   string
		}{
			{"http://example.com", "http://example.com"},
			{"http://localhost:3000", "http://localhost:3000"},
			{"http://evil.com", ""},
			{"", ""},
		} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("origin %q: status = %d, want 200", tc.origin, w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
				t.Errorf("origin %q: Access-Control-Allow-Origin = %q, want %q", tc.origin, got, tc.want)
			}
			// The remaining CORS headers appear whenever CORS is configured
			if w.Header().Get("Access-Control-Allow-Methods") == "" {
				t.Errorf("origin %q: Access-Control-Allow-Methods missing", tc.origin)
			}
		}
	})

	t.Run("preflight request", func(t *testing.T) {
		handler := corsMiddleware([]string{"http://example.com"})(okHandler())

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
			t.Errorf("Access-Control-Allow-Origin = %q, want http://example.com", got)
		}
		if w.Header().Get("Access-Control-Allow-Headers") == "" {
			t.Error("Access-Control-Allow-Headers missing")
		}
		if got := w.Header().Get("Access-Control-Max-Age"); got != corsMaxAgeSeconds {
			t.Errorf("Access-Control-Max-Age = %q, want %q", got, corsMaxAgeSeconds)
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	handler := loggingMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test?foo=bar", nil)
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("body = %q, the middleware must not touch the response", w.Body.String())
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header missing")
	}
}

func TestPathValidationMiddleware(t *testing.T) {
	t.Run("accepts the configured path", func(t *testing.T) {
		handler := pathValidationMiddleware("/mcp")(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mcp", nil))

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("rejects everything else", func(t *testing.T) {
		handler := pathValidationMiddleware("/mcp")(okHandler())

		for _, path := range []string{"/", "/api", "/mcp/test", "/mcpserver"} {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			if w.Code != http.StatusNotFound {
				t.Errorf("%s: status = %d, want 404", path, w.Code)
			}
			want := "Not Found: This server only handles requests to /mcp\n"
			if w.Body.String() != want {
				t.Errorf("%s: body = %q, want %q", path, w.Body.String(), want)
			}
		}
	})

	t.Run("custom endpoint path", func(t *testing.T) {
		handler := pathValidationMiddleware("/api/mcp")(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/mcp", nil))
		if w.Code != http.StatusOK {
			t.Errorf("configured path: status = %d, want 200", w.Code)
		}

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("default path with custom configuration: status = %d, want 404", w.Code)
		}
	})
}

func TestChainMiddleware(t *testing.T) {
	cfg := &config.Config{
		TransportMode: config.TransportModeHTTP,
		HTTPPath:      "/mcp",
	}

	t.Run("authenticated request passes the whole chain", func(t *testing.T) {
		clearDatabaseCredentials(t)
		var rec recordedAuth
		handler := chainMiddleware(cfg, []string{"http://example.com"}, recordAuthHandler(&rec))

		req := httptest.NewRequest(http.MethodPost, "/mcp",
			strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"execute_sql"}}`))
		req.Header.Set("Origin", "http://example.com")
		req.SetBasicAuth("user", "pass")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
			t.Errorf("Access-Control-Allow-Origin = %q, want http://example.com", got)
		}
		if rec.user != "user" || rec.pass != "pass" {
			t.Errorf("context credentials = (%q, %q), want (user, pass)", rec.user, rec.pass)
		}
	})

	t.Run("unauthenticated tool call is rejected", func(t *testing.T) {
		clearDatabaseCredentials(t)
		handler := chainMiddleware(cfg, []string{"http://example.com"}, okHandler())

		req := httptest.NewRequest(http.MethodPost, "/mcp",
			strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"execute_sql"}}`))
		req.Header.Set("Origin", "http://example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("path validation runs before auth", func(t *testing.T) {
		// A request to the wrong path gets its 404 without being asked for
		// credentials.
		clearDatabaseCredentials(t)
		handler := chainMiddleware(cfg, nil, okHandler())

		req := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"execute_sql"}}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestParseAllowedOrigins(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"wildcard", "*", []string{"*"}},
		{"single origin", "http://example.com", []string{"http://example.com"}},
		{"several origins", "http://example.com,http://localhost:3000", []string{"http://example.com", "http://localhost:3000"}},
		{"spaces around entries", "http://example.com , http://localhost:3000", []string{"http://example.com", "http://localhost:3000"}},
		{"trailing comma", "http://example.com,", []string{"http://example.com"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := parseAllowedOrigins(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("parseAllowedOrigins(%q) = %v, want %v", tc.input, got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("origin[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestPeekRPCMethod(t *testing.T) {
	t.Run("extracts the method and restores the body", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"connect"}}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))

		method, err := peekRPCMethod(req)
		if err != nil {
			t.Fatalf("peekRPCMethod: %v", err)
		}
		if method != "tools/call" {
			t.Errorf("method = %q, want tools/call", method)
		}

		restored, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("re-reading body: %v", err)
		}
		if string(restored) != body {
			t.Errorf("restored body = %q, want the original payload", restored)
		}
	})

	t.Run("malformed body yields no method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("not json"))

		method, err := peekRPCMethod(req)
		if err != nil {
			t.Fatalf("peekRPCMethod: %v", err)
		}
		if method != "" {
			t.Errorf("method = %q, want empty for a malformed body", method)
		}
	})
}
