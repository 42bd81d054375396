package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
)

func guardedHandler(t *testing.T, tokens *jwt.Manager) http.Handler {
	t.Helper()
	guard := RequirePermission(tokens, zerolog.Nop())
	return guard(PermDeleteQuestions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Subject", claims.Subject)
		w.WriteHeader(http.StatusOK)
	}))
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/questions/11", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequirePermission(t *testing.T) {
	tokens := jwt.NewManager(jwt.TokenConfig{Secret: []byte("secret")})
	h := guardedHandler(t, tokens)

	editor, err := tokens.Generate("editor", EditorPermissions)
	require.NoError(t, err)
	reader, err := tokens.Generate("reader", []string{PermPostQuestions})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		reason string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, reason: "authentication_required"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, reason: "invalid_token"},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized, reason: "invalid_token"},
		{name: "lacks permission", header: "Bearer " + reader, status: http.StatusForbidden, reason: "missing_permission"},
		{name: "editor", header: "Bearer " + editor, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.reason == "" {
				assert.Equal(t, "editor", rec.Header().Get("X-Subject"))
				return
			}
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.reason, body["reason"])
		})
	}
}
