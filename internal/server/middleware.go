package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/designcomputer/mysql-mcp/internal/auth"
	"github.com/designcomputer/mysql-mcp/internal/config"
)

// rpcEnvelope is the minimal JSON-RPC 2.0 shape needed to route a request.
type rpcEnvelope struct {
	Method string `json:"method"`
}

// credentialedMethods are the MCP methods that end up talking to MySQL and
// therefore need credentials. Handshake and discovery methods stay open so
// clients can probe capabilities before authenticating.
var credentialedMethods = []string{
	"tools/call",
	"resources/read",
}

// peekRPCMethod extracts the JSON-RPC method from the request body and puts
// the body back so the MCP handler can read it again.
func peekRPCMethod(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	// GET requests carry no body
	if len(body) == 0 {
		return "", nil
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Malformed payloads pass through unauthenticated; the MCP handler
		// answers them with a proper JSON-RPC error.
		slog.Debug("Request body is not JSON-RPC", "error", err)
		return "", nil
	}

	return envelope.Method, nil
}

const corsMaxAgeSeconds = "86400" // 24 hours

// chainMiddleware wires up the HTTP middleware stack.
// Execution order: PathValidator -> CORS -> BasicAuth -> Logging -> Handler
func chainMiddleware(cfg *config.Config, allowedOrigins []string, next http.Handler) http.Handler {
	// Applied in reverse order (last added = first to execute).
	handler := next
	handler = loggingMiddleware()(handler)
	handler = basicAuthMiddleware()(handler)
	handler = corsMiddleware(allowedOrigins)(handler)
	handler = pathValidationMiddleware(cfg.HTTPPath)(handler)
	return handler
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="MySQL MCP Server"`)
	http.Error(w, "Unauthorized: "+detail, http.StatusUnauthorized)
}

// basicAuthMiddleware guards the methods listed in credentialedMethods with
// HTTP Basic Authentication.
//
// Header credentials take priority and are placed into the request context,
// where the per-call database configuration picks them up instead of the
// MYSQL_USER/MYSQL_PASSWORD environment variables. When the environment
// carries credentials the request may also proceed without a header; the
// per-call configuration then reads the environment on its own.
//
// Only requests for a credentialed method with no credentials from either
// source are answered with 401.
func basicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, err := peekRPCMethod(r)
			if err != nil {
				// Unreadable body, require auth as the safe default.
				slog.Warn("Failed to read MCP method from request", "error", err)
				unauthorized(w, "Basic authentication required")
				return
			}

			user, pass, hasCredentials := r.BasicAuth()
			if hasCredentials {
				ctx := auth.WithBasicAuth(r.Context(), user, pass)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if os.Getenv("MYSQL_USER") != "" && os.Getenv("MYSQL_PASSWORD") != "" {
				slog.Debug("Using environment variable credentials as fallback")
				next.ServeHTTP(w, r)
				return
			}

			if slices.Contains(credentialedMethods, method) {
				slog.Debug("Rejecting unauthenticated request", "method", method)
				unauthorized(w, "Basic authentication required for database operations")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware answers cross-origin requests for the configured origins.
// An empty origin list disables CORS entirely, "*" allows every origin.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowedOrigins) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			switch {
			case slices.Contains(allowedOrigins, "*"):
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", corsMaxAgeSeconds)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// pathValidationMiddleware rejects requests outside the configured MCP
// endpoint path with a 404 to avoid hanging connections.
func pathValidationMiddleware(path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				http.Error(w, fmt.Sprintf("Not Found: This server only handles requests to %s", path), http.StatusNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware tags every request with a generated id, echoes it back in
// the X-Request-Id response header and writes a debug log line.
func loggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-Id", requestID)

			slog.Debug("Handling HTTP request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"content_length", r.ContentLength,
			)

			next.ServeHTTP(w, r)
		})
	}
}

// parseAllowedOrigins splits the comma-separated origin list from the
// configuration into individual origins, trimming whitespace.
func parseAllowedOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
