package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langzhe001/cf-domain/internal/domain"
)

func postJSON(srv *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// --- handleRegister tests ---

func TestHandleRegister_Success(t *testing.T) {
	var gotUsername, gotPassword string
	app := &mockAppService{
		registerFn: func(_ context.Context, username, password string) error {
			gotUsername, gotPassword = username, password
			return nil
		},
	}
	srv := newTestServer(t, app)

	rec := postJSON(srv, "/api/register", `{"username":"alice","password":"pw1"}`)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "alice", gotUsername)
	assert.Equal(t, "pw1", gotPassword)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["success"])
}

func TestHandleRegister_MissingFields(t *testing.T) {
	app := &mockAppService{
		registerFn: func(context.Context, string, string) error {
			return domain.ErrMissingFields
		},
	}
	srv := newTestServer(t, app)

	rec := postJSON(srv, "/api/register", `{"username":"alice"}`)

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestHandleRegister_UserExists(t *testing.T) {
	app := &mockAppService{
		registerFn: func(context.Context, string, string) error {
			return domain.ErrUserExists
		},
	}
	srv := newTestServer(t, app)

	rec := postJSON(srv, "/api/register", `{"username":"alice","password":"pw1"}`)

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestHandleRegister_StoreError(t *testing.T) {
	app := &mockAppService{
		registerFn: func(context.Context, string, string) error {
			return errors.New("connection refused")
		},
	}
	srv := newTestServer(t, app)

	rec := postJSON(srv, "/api/register", `{"username":"alice","password":"pw1"}`)

	assert.Equal(t, 500, rec.Code)
	// Internal details never leak into the response.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHandleRegister_MalformedBody(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := postJSON(srv, "/api/register", `{not json`)

	assert.Equal(t, 400, rec.Code)
}

// --- handleLogin tests ---

func TestHandleLogin_Success(t *testing.T) {
	app := &mockAppService{
		loginFn: func(_ context.Context, username, password string) (string, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, "pw1", password)
			return "signed-token", nil
		},
	}
	srv := newTestServer(t, app)

	rec := postJSON(srv, "/api/login", `{"username":"alice","password":"pw1"}`)

	assert.Equal(t, 200, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body["token"])
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	app := &mockAppService{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	srv := newTestServer(t, app)

	rec := postJSON(srv, "/api/login", `{"username":"alice","password":"wrong"}`)

	assert.Equal(t, 401, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestHandleLogin_StoreError(t *testing.T) {
	app := &mockAppService{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	srv := newTestServer(t, app)

	rec := postJSON(srv, "/api/login", `{"username":"alice","password":"pw1"}`)

	assert.Equal(t, 500, rec.Code)
}
