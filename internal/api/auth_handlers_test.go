package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepupapp/keepup-server/internal/api/dto"
	"github.com/keepupapp/keepup-server/internal/domain"
	"github.com/keepupapp/keepup-server/internal/service"
)

func TestRegister_QueryParams(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/register?username=alice&password=pw1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	msg := decode[dto.MessageResponse](t, resp.Body.Bytes())
	assert.Equal(t, "User registered successfully", msg.Message)
}

func TestRegister_JSONBody(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/register", map[string]any{"username": "alice", "password": "pw1"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/login", map[string]any{"username": "alice", "password": "pw1"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	token := decode[dto.TokenResponse](t, resp.Body.Bytes())
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, int64(3600), token.ExpiresIn)
}

func TestRegister_Duplicate(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/register?username=alice&password=pw1")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/register?username=alice&password=other")
	assertError(t, resp, http.StatusBadRequest, "DUPLICATE_USERNAME", "Username already registered")
}

func TestRegister_MissingCredentials(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/register")
	assertError(t, resp, http.StatusBadRequest, "VALIDATION", "")
}

func TestRegister_MultiBytePasswordOverByteLimit(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/register", map[string]any{
		"username": "alice",
		"password": strings.Repeat("é", 600),
	})
	assertError(t, resp, http.StatusBadRequest, "VALIDATION", "validation failed")

	apiErr := decode[APIError](t, resp.Body.Bytes())
	assert.Contains(t, apiErr.Details, "password")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerAndLogin(t, "alice", "pw1")

	resp := ts.api.Post("/login?username=alice&password=wrong")
	assertError(t, resp, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")

	resp = ts.api.Post("/login?username=nobody&password=pw1")
	assertError(t, resp, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
}

func TestMe(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerAndLogin(t, "alice", "pw1")

	resp := ts.api.Get("/me", auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	me := decode[dto.MeResponse](t, resp.Body.Bytes())
	assert.Equal(t, "alice", me.Username)
	assert.NotZero(t, me.ID)
}

func TestMe_TokensIdentifyTheirOwner(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerAndLogin(t, "alice", "pw1")
	bob := ts.registerAndLogin(t, "bob", "pw2")

	assert.Equal(t, "alice", decode[dto.MeResponse](t, ts.api.Get("/me", alice).Body.Bytes()).Username)
	assert.Equal(t, "bob", decode[dto.MeResponse](t, ts.api.Get("/me", bob).Body.Bytes()).Username)
}

func TestMe_Unauthorized(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name    string
		headers []any
		message string
	}{
		{"missing header", nil, "Not authenticated"},
		{"wrong scheme", []any{"Authorization: Basic YWxpY2U6cHcx"}, "Invalid authorization header format"},
		{"garbage token", []any{"Authorization: Bearer not-a-token"}, "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/me", tt.headers...)
			assertError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", tt.message)
		})
	}
}

func TestMe_UserGone(t *testing.T) {
	ts := setupTestServer(t)

	token, _, err := ts.tokens.Issue(&domain.User{ID: 4242, Username: "ghost"})
	require.NoError(t, err)

	resp := ts.api.Get("/me", "Authorization: Bearer "+token)
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND", "User not found")
}

func TestAuthRateLimit(t *testing.T) {
	opts := defaultTestOptions()
	opts.AuthRatePerMinute = 1
	opts.AuthBurst = 2
	ts := setupTestServerWith(t, opts, service.OwnershipPolicy{})

	for i := 0; i < 2; i++ {
		resp := ts.api.Post("/login?username=x&password=y")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/login?username=x&password=y")
	assertError(t, resp, http.StatusTooManyRequests, "RATE_LIMITED", "")

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, ts.api.Get("/health").Code)
}
