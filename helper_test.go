package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router       *gin.Engine
	transactions *MockTransactionStore
	users        *MockUserStore
	sessions     *memorySessionStore
	healthErr    error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, defaultConfig())
}

func newTestServerWithConfig(t *testing.T, cfg Config) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	ts := &testServer{
		transactions: NewMockTransactionStore(ctrl),
		users:        NewMockUserStore(ctrl),
		sessions:     newMemorySessionStore(),
	}
	srv := newServer(cfg, ts.transactions, ts.users, ts.sessions, func(context.Context) error {
		return ts.healthErr
	}, newLogger(io.Discard, "debug"))
	srv.auth.cost = bcrypt.MinCost

	r, err := srv.routes()
	require.NoError(t, err)
	ts.router = r
	return ts
}

// signIn creates a session directly in the store and returns its cookie
func (ts *testServer) signIn(t *testing.T, sess Session) *http.Cookie {
	t.Helper()
	token, err := ts.sessions.Create(context.Background(), sess, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookie, Value: token}
}

func (ts *testServer) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
