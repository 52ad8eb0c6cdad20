package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marga-Ghale/charge-tracker/internal/api/middleware"
	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
	"github.com/Marga-Ghale/charge-tracker/internal/socket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUser = &repository.User{ID: "testuser", FirstName: "Test", LastName: "User", Email: "testuser@rit.edu"}

type stubAuth struct {
	service.AuthService
	asserted *service.Identity
}

func (stubAuth) Login(_ context.Context, username, password string) (*repository.User, string, error) {
	if username == "testuser" && password == "secret" {
		return testUser, "user-token", nil
	}
	return nil, "", service.ErrInvalidCredentials
}

func (stubAuth) ResolveToken(_ context.Context, token string) (*repository.User, error) {
	if token == "user-token" {
		return testUser, nil
	}
	return nil, service.ErrInvalidToken
}

func (a *stubAuth) LoginFromAssertion(_ context.Context, id service.Identity) (*repository.User, string, error) {
	a.asserted = &id
	if id.Username == "" {
		return nil, "", service.ErrInvalidCredentials
	}
	return &repository.User{ID: id.Username}, "saml token", nil
}

type stubNotifications struct {
	service.NotificationService
}

func (stubNotifications) List(_ context.Context, user *repository.User) ([]*repository.Notification, error) {
	return []*repository.Notification{{ID: 1, UserID: user.ID, Message: "hello", Redirect: "/charge/1"}}, nil
}

func (stubNotifications) MarkViewed(_ context.Context, user *repository.User, id int64) ([]events.Event, error) {
	if id != 1 {
		return nil, service.ErrNotificationNotFound
	}
	return []events.Event{events.NotificationsChanged{UserID: user.ID}}, nil
}

func (stubNotifications) Delete(_ context.Context, user *repository.User, id int64) ([]events.Event, error) {
	return []events.Event{events.NotificationsChanged{UserID: user.ID}}, nil
}

type stubUsers struct {
	service.UserService
}

func (stubUsers) List(context.Context) ([]*repository.User, error) {
	return []*repository.User{testUser, {ID: "adminuser", IsAdmin: true}}, nil
}

func (stubUsers) GetByID(_ context.Context, id string) (*repository.User, error) {
	if id == testUser.ID {
		return testUser, nil
	}
	return nil, service.ErrUserNotFound
}

type testServer struct {
	engine    *gin.Engine
	auth      *stubAuth
	published []string
}

func newTestServer(t *testing.T, router socket.Router) *testServer {
	t.Helper()
	ts := &testServer{auth: &stubAuth{}}
	dispatcher := events.NewDispatcher(events.HandlerFunc(func(_ context.Context, e events.Event) error {
		ts.published = append(ts.published, e.Name())
		return nil
	}))
	services := &service.Services{Auth: ts.auth, User: stubUsers{}, Notification: stubNotifications{}}
	h := NewHandlers(services, router, dispatcher)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/events/:event", h.Events.Handle)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(services.Auth))
	protected.GET("/auth/me", h.Auth.Me)
	protected.GET("/users", h.User.List)
	protected.GET("/users/:id", h.User.Get)
	protected.GET("/notifications", h.Notification.List)
	protected.PUT("/notifications/:id/read", h.Notification.MarkRead)
	protected.DELETE("/notifications/:id", h.Notification.Delete)
	ts.engine = r
	return ts
}

func (ts *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Username: "testuser", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-token", resp.Token)

	w = ts.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Username: "testuser", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "testuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeRequiresValidToken(t *testing.T) {
	ts := newTestServer(t, nil)

	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/auth/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/auth/me", "bogus", nil).Code)

	w := ts.do(http.MethodGet, "/api/auth/me", "user-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "testuser", resp.Username)
	assert.Equal(t, "Test", resp.FirstName)
}

func TestUserRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/api/users", "user-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.True(t, list[1].IsAdmin)

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/users/testuser", "user-token", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/users/nobody", "user-token", nil).Code)
}

func TestEventHandlerRunsRouterThenPublishes(t *testing.T) {
	var got socket.Request
	published := false
	router := socket.RouterFunc(func(_ context.Context, req socket.Request) socket.Response {
		got = req
		return socket.Response{
			Replies: []socket.Reply{{Event: req.Event, Payload: map[string]string{"success": "ok"}}},
			Publish: func(context.Context) { published = true },
		}
	})
	ts := newTestServer(t, router)

	w := ts.do(http.MethodPost, "/api/events/create_charge", "user-token", `{"title":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "create_charge", got.Event)
	assert.Equal(t, "user-token", got.Token)
	assert.JSONEq(t, `{"title":"x"}`, string(got.Payload))
	assert.JSONEq(t, `[{"event":"create_charge","payload":{"success":"ok"}}]`, w.Body.String())
	assert.True(t, published)
}

func TestEventHandlerEmptyRepliesAndBadJSON(t *testing.T) {
	router := socket.RouterFunc(func(context.Context, socket.Request) socket.Response {
		return socket.Response{}
	})
	ts := newTestServer(t, router)

	w := ts.do(http.MethodPost, "/api/events/get_committees", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = ts.do(http.MethodPost, "/api/events/get_committees", "", `{"broken"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/api/notifications", "user-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.NotificationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "testuser", list[0].User)

	w = ts.do(http.MethodPut, "/api/notifications/1/read", "user-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"notifications_changed"}, ts.published)

	w = ts.do(http.MethodPut, "/api/notifications/9/read", "user-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPut, "/api/notifications/abc/read", "user-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodDelete, "/api/notifications/1", "user-token", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, ts.published, 2)
}

func TestSAMLCompleteRedirectsWithToken(t *testing.T) {
	auth := &stubAuth{}
	h := newSAMLHandler(auth, samlAttributes{UID: "uid", FirstName: "givenName", LastName: "sn", Mail: "mail"}, "https://tracker.example/")
	attrs := map[string]string{"uid": "jdoe", "givenName": "Jane", "sn": "Doe", "mail": "jdoe@rit.edu"}
	h.attribute = func(_ *http.Request, name string) string { return attrs[name] }

	w := httptest.NewRecorder()
	h.complete(w, httptest.NewRequest(http.MethodGet, "/saml/login", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://tracker.example/?token=saml+token", w.Header().Get("Location"))
	require.NotNil(t, auth.asserted)
	assert.Equal(t, service.Identity{Username: "jdoe", FirstName: "Jane", LastName: "Doe", Email: "jdoe@rit.edu"}, *auth.asserted)
}

func TestSAMLCompleteWithoutUID(t *testing.T) {
	h := newSAMLHandler(&stubAuth{}, samlAttributes{UID: "uid"}, "https://tracker.example")
	h.attribute = func(*http.Request, string) string { return "" }

	w := httptest.NewRecorder()
	h.complete(w, httptest.NewRequest(http.MethodGet, "/saml/login", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSPA(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	r := gin.New()
	r.NoRoute(SPA(dir))
	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = get("/committee/testcommittee")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = get("/../../etc/passwd")
	assert.NotContains(t, w.Body.String(), "root:")

	assert.Equal(t, http.StatusNotFound, get("/api/missing").Code)
}
