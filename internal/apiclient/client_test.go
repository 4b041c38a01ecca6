package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/model"
)

type fakeAuth struct {
	token       string
	invalidated atomic.Int32
	rejected    atomic.Value
}

func (f *fakeAuth) Token() string { return f.token }
func (f *fakeAuth) Invalidate(ctx context.Context, rejected string) {
	f.rejected.Store(rejected)
	f.invalidated.Add(1)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second, zerolog.Nop())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginSendsPasswordForm(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %q", ct)
		}
		if r.FormValue("username") != "t@college.edu" || r.FormValue("password") != "pw" {
			t.Errorf("form = %v", r.Form)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok-1", "token_type": "bearer"})
	}))

	tok, err := c.Login(context.Background(), model.Credentials{Email: "t@college.edu", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok != "tok-1" {
		t.Fatalf("token = %q", tok)
	}
}

func TestLoginRejectedIsRequestError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
	}))

	_, err := c.Login(context.Background(), model.Credentials{Email: "x", Password: "y"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("want *RequestError for an unauthenticated call, got %T %v", err, err)
	}
	if reqErr.Status != http.StatusUnauthorized || reqErr.Detail != "Incorrect email or password" {
		t.Fatalf("got %+v", reqErr)
	}
}

func TestConnAttachesBearerToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("Authorization = %q", got)
		}
		writeJSON(w, http.StatusOK, []model.Course{{ID: 1, Code: "CS101", Name: "Intro"}})
	}))

	auth := &fakeAuth{token: "abc"}
	courses, err := c.As(auth).ListCourses(context.Background())
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(courses) != 1 || courses[0].Code != "CS101" {
		t.Fatalf("courses = %+v", courses)
	}
	if auth.invalidated.Load() != 0 {
		t.Fatal("successful call must not invalidate")
	}
}

func TestConnUnauthorizedInvalidatesSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]string{"detail": "Not authenticated"})
		}))
		auth := &fakeAuth{token: "stale"}

		_, err := c.As(auth).MyGrades(context.Background())
		var authErr *AuthorizationError
		if !errors.As(err, &authErr) {
			t.Fatalf("status %d: want *AuthorizationError, got %T", status, err)
		}
		if authErr.Status != status {
			t.Errorf("status = %d, want %d", authErr.Status, status)
		}
		if auth.invalidated.Load() != 1 {
			t.Errorf("status %d: invalidated %d times, want 1", status, auth.invalidated.Load())
		}
		if got, _ := auth.rejected.Load().(string); got != "stale" {
			t.Errorf("rejected token = %q, want the one sent", got)
		}
	}
}

func TestConnUnauthorizedWithoutTokenIsAuthorizationError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("empty session sent a bearer token")
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
	}))
	auth := &fakeAuth{}

	_, err := c.As(auth).ListCourses(context.Background())
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("want *AuthorizationError, got %T %v", err, err)
	}
	if auth.invalidated.Load() != 1 {
		t.Errorf("invalidated %d times, want 1", auth.invalidated.Load())
	}
}

func TestConnServerErrorKeepsSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
	}))
	auth := &fakeAuth{token: "abc"}

	_, err := c.As(auth).CreateUser(context.Background(), model.NewUser{Email: "dup@college.edu"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("want *RequestError, got %T", err)
	}
	if reqErr.Detail != "Email already registered" {
		t.Errorf("detail = %q", reqErr.Detail)
	}
	if auth.invalidated.Load() != 0 {
		t.Fatal("non-auth failure must not invalidate")
	}
}

func TestTransportFailureIsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, zerolog.Nop())
	err := c.Health(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != 0 {
		t.Fatalf("want status-less *RequestError, got %v", err)
	}
}

func TestCancelledContextAbortsRequest(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Me(ctx, "abc")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRolePathsAndBodies(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		gotBody = nil
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "name": "N", "email": "n@x", "role": "superuser", "message": "ok"})
	}))
	conn := c.As(&fakeAuth{token: "t"})
	ctx := context.Background()

	u, err := conn.UpdateUserRole(ctx, 7, model.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPut || gotPath != "/admin/users/7/role" || gotBody["role"] != "superuser" {
		t.Errorf("update role sent %s %s %v", gotMethod, gotPath, gotBody)
	}
	if u.Role != model.RoleAdmin {
		t.Errorf("superuser should decode as admin, got %q", u.Role)
	}

	if _, err := conn.SubmitAttendance(ctx, 3, "2024-05-01", []model.AttendanceEntry{{StudentID: 4, Status: model.AttendanceLate}}); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/attendance/courses/3/date/2024-05-01" {
		t.Errorf("attendance path = %s", gotPath)
	}
	records, _ := gotBody["records"].([]any)
	if len(records) != 1 {
		t.Errorf("attendance body = %v", gotBody)
	}

	if err := conn.DeleteCourse(ctx, 9); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/courses/9" {
		t.Errorf("delete sent %s %s", gotMethod, gotPath)
	}
}
