package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"learning_platform/backend/models"
	"learning_platform/backend/routes"
	"learning_platform/backend/testutil"
	"learning_platform/backend/utils"
)

type testApp struct {
	app  *fiber.App
	db   *gorm.DB
	mail *testutil.MailRecorder
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.DB(t)
	rec := &testutil.MailRecorder{}
	cfg := testutil.Config()
	app := routes.NewApp(routes.Options{
		DB:       db,
		Config:   cfg,
		Logger:   utils.NopLogger(),
		Reporter: utils.NewReporter(cfg),
		Mailer:   rec,
	})
	return &testApp{app: app, db: db, mail: rec}
}

type request struct {
	method  string
	path    string
	body    interface{}
	token   string
	cookies []*http.Cookie
}

func (ta *testApp) do(t *testing.T, r request) *http.Response {
	t.Helper()
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, ck := range r.cookies {
		req.AddCookie(ck)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

// login returns a bearer token for a fixture user.
func (ta *testApp) login(t *testing.T, user *models.User) string {
	t.Helper()
	resp := ta.do(t, request{method: "POST", path: "/login/", body: map[string]string{
		"email": user.Email, "password": testutil.Password,
	}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out map[string]string
	decode(t, resp, &out)
	return out["access_token"]
}
