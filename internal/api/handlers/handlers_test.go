package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avelinof/linkup-be/internal/api"
	"github.com/avelinof/linkup-be/internal/api/handlers"
	"github.com/avelinof/linkup-be/internal/auth"
	"github.com/avelinof/linkup-be/internal/database"
	"github.com/avelinof/linkup-be/internal/mailer"
	"github.com/avelinof/linkup-be/internal/services"
)

const testClientOrigin = "http://localhost:5173"

// fakeUploader satisfies storage.ImageUploader without an object store.
type fakeUploader struct {
	uploads int
}

func (f *fakeUploader) Upload(_ context.Context, data string) (string, error) {
	if !strings.HasPrefix(data, "data:") {
		return data, nil
	}
	f.uploads++
	return fmt.Sprintf("https://img.test/object-%d.png", f.uploads), nil
}

type testEnv struct {
	ts     *httptest.Server
	db     *sql.DB
	images *fakeUploader
}

// newTestEnv wires the real router, services and a fresh SQLite database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	images := &fakeUploader{}
	userService := services.NewUserService(db, images)
	connectionService := services.NewConnectionService(db)
	postService := services.NewPostService(db, images)

	tokens := auth.NewTokenManager("test-secret", time.Hour, false)
	outbox := mailer.NewOutbox(db)

	router := api.NewRouter(
		tokens,
		handlers.NewAuthHandler(userService, tokens, outbox, testClientOrigin),
		handlers.NewUserHandler(userService, connectionService),
		handlers.NewPostHandler(postService),
		testClientOrigin,
	)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, db: db, images: images}
}

// newClient returns an HTTP client that keeps session cookies across requests.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// doJSON issues a request with a JSON body and returns the raw response body.
func doJSON(t *testing.T, client *http.Client, method, url string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// signup registers a user and fails the test on anything but a 201.
func signup(t *testing.T, client *http.Client, baseURL, name, username, email, password string) {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", map[string]string{
		"name": name, "username": username, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "signup response: %s", body)
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func message(t *testing.T, raw []byte) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Message
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}
