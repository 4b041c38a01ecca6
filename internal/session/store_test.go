package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/model"
)

type fakeGateway struct {
	mu       sync.Mutex
	tokens   map[string]*model.User // token -> identity
	password map[string]string      // email -> password
	meCalls  int
	loginErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		tokens: map[string]*model.User{
			"tok-teacher": {ID: 2, Name: "Tess", Email: "teacher@college.edu", Role: model.RoleTeacher},
		},
		password: map[string]string{"teacher@college.edu": "secret"},
	}
}

func (g *fakeGateway) Login(ctx context.Context, creds model.Credentials) (string, error) {
	if g.loginErr != nil {
		return "", g.loginErr
	}
	if g.password[creds.Email] != creds.Password {
		return "", &apiclient.RequestError{Status: http.StatusUnauthorized, Detail: "Incorrect email or password"}
	}
	return "tok-teacher", nil
}

func (g *fakeGateway) Me(ctx context.Context, token string) (*model.User, error) {
	g.mu.Lock()
	g.meCalls++
	g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := g.tokens[token]
	if !ok {
		return nil, &apiclient.AuthorizationError{Status: http.StatusUnauthorized}
	}
	return u, nil
}

type memCache struct {
	users map[string]*model.User
}

func (m *memCache) Get(_ context.Context, token string) (*model.User, error) {
	return m.users[token], nil
}

func (m *memCache) Set(_ context.Context, token string, u *model.User) error {
	m.users[token] = u
	return nil
}

func (m *memCache) Delete(_ context.Context, token string) error {
	delete(m.users, token)
	return nil
}

func TestLoginStoresTokenAndIdentity(t *testing.T) {
	storage := NewMemoryStorage("")
	s := New(newFakeGateway(), storage)

	sess, err := s.Login(context.Background(), model.Credentials{Email: "teacher@college.edu", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !sess.Authenticated() || sess.User.Role != model.RoleTeacher {
		t.Fatalf("session = %+v", sess)
	}
	if got, _ := storage.Load(context.Background()); got != "tok-teacher" {
		t.Fatalf("stored token = %q", got)
	}
	if s.CurrentUser() == nil || s.Token() != "tok-teacher" {
		t.Fatal("store state not updated")
	}
}

func TestLoginRejectedCarriesDetail(t *testing.T) {
	s := New(newFakeGateway(), NewMemoryStorage(""))

	_, err := s.Login(context.Background(), model.Credentials{Email: "teacher@college.edu", Password: "wrong"})
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("want *AuthenticationError, got %T", err)
	}
	if authErr.Reason != "Incorrect email or password" {
		t.Errorf("reason = %q", authErr.Reason)
	}
	if s.CurrentUser() != nil {
		t.Fatal("failed login must leave no identity")
	}
}

func TestLoginWithoutDetailUsesDefaultReason(t *testing.T) {
	g := newFakeGateway()
	g.loginErr = &apiclient.RequestError{Err: errors.New("connection refused")}
	s := New(g, NewMemoryStorage(""))

	_, err := s.Login(context.Background(), model.Credentials{Email: "a", Password: "b"})
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) || authErr.Reason != DefaultLoginFailure {
		t.Fatalf("got %v", err)
	}
}

func TestLoginClearsTokenWhenIdentityFails(t *testing.T) {
	g := newFakeGateway()
	delete(g.tokens, "tok-teacher")
	storage := NewMemoryStorage("")
	s := New(g, storage)

	if _, err := s.Login(context.Background(), model.Credentials{Email: "teacher@college.edu", Password: "secret"}); err == nil {
		t.Fatal("expected failure")
	}
	if got, _ := storage.Load(context.Background()); got != "" {
		t.Fatalf("token left in storage: %q", got)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	storage := NewMemoryStorage("")
	s := New(newFakeGateway(), storage)
	ctx := context.Background()
	if _, err := s.Login(ctx, model.Credentials{Email: "teacher@college.edu", Password: "secret"}); err != nil {
		t.Fatal(err)
	}

	var events []model.Session
	unsubscribe := s.Subscribe(func(sess model.Session) { events = append(events, sess) })
	defer unsubscribe()

	s.Logout(ctx)
	s.Logout(ctx)

	if s.CurrentUser() != nil || s.Token() != "" {
		t.Fatal("logout left state behind")
	}
	if got, _ := storage.Load(ctx); got != "" {
		t.Fatalf("storage still holds %q", got)
	}
	if len(events) != 1 || events[0].Authenticated() {
		t.Fatalf("want one logged-out event, got %+v", events)
	}
}

func TestRestoreResolvesStoredToken(t *testing.T) {
	s := New(newFakeGateway(), NewMemoryStorage("tok-teacher"))
	s.Restore(context.Background())
	if u := s.CurrentUser(); u == nil || u.Name != "Tess" {
		t.Fatalf("CurrentUser = %+v", u)
	}
}

func TestRestoreClearsRejectedToken(t *testing.T) {
	storage := NewMemoryStorage("expired")
	s := New(newFakeGateway(), storage)

	s.Restore(context.Background())

	if s.CurrentUser() != nil {
		t.Fatal("rejected token must not yield an identity")
	}
	if got, _ := storage.Load(context.Background()); got != "" {
		t.Fatalf("rejected token left in storage: %q", got)
	}
}

func TestRestoreCancelledKeepsStorage(t *testing.T) {
	storage := NewMemoryStorage("tok-teacher")
	s := New(newFakeGateway(), storage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Restore(ctx)

	if s.CurrentUser() != nil {
		t.Fatal("cancelled restore must not resolve")
	}
	if got, _ := storage.Load(context.Background()); got != "tok-teacher" {
		t.Fatalf("cancelled restore cleared storage: %q", got)
	}
}

func TestInvalidateClearsSession(t *testing.T) {
	storage := NewMemoryStorage("tok-teacher")
	s := New(newFakeGateway(), storage)
	ctx := context.Background()
	s.Restore(ctx)

	s.Invalidate(ctx, "tok-teacher")

	if s.CurrentUser() != nil {
		t.Fatal("identity survived invalidation")
	}
	if got, _ := storage.Load(ctx); got != "" {
		t.Fatalf("storage = %q", got)
	}
}

func TestInvalidateIgnoresReplacedToken(t *testing.T) {
	storage := NewMemoryStorage("tok-old")
	s := New(newFakeGateway(), storage)
	ctx := context.Background()

	if _, err := s.Login(ctx, model.Credentials{Email: "teacher@college.edu", Password: "secret"}); err != nil {
		t.Fatal(err)
	}
	s.Invalidate(ctx, "tok-old")

	if s.CurrentUser() == nil || s.Token() != "tok-teacher" {
		t.Fatalf("newer session dropped: token %q", s.Token())
	}
	if got, _ := storage.Load(ctx); got != "tok-teacher" {
		t.Fatalf("storage = %q", got)
	}
}

func TestIdentityCacheSkipsLookup(t *testing.T) {
	g := newFakeGateway()
	cache := &memCache{users: map[string]*model.User{}}
	ctx := context.Background()

	first := New(g, NewMemoryStorage("tok-teacher"), WithIdentityCache(cache))
	first.Restore(ctx)
	second := New(g, NewMemoryStorage("tok-teacher"), WithIdentityCache(cache))
	second.Restore(ctx)

	if g.meCalls != 1 {
		t.Fatalf("Me called %d times, want 1", g.meCalls)
	}
	if second.CurrentUser() == nil {
		t.Fatal("cached identity not used")
	}

	second.Logout(ctx)
	if _, ok := cache.users["tok-teacher"]; ok {
		t.Fatal("logout must evict the cached identity")
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := New(newFakeGateway(), NewMemoryStorage("tok-teacher"))
	var n int
	unsubscribe := s.Subscribe(func(model.Session) { n++ })
	unsubscribe()
	unsubscribe()

	s.Restore(context.Background())
	if n != 0 {
		t.Fatalf("got %d notifications after unsubscribe", n)
	}
}

func TestResolveRestoresOnce(t *testing.T) {
	g := newFakeGateway()
	s := New(g, NewMemoryStorage("tok-teacher"))
	ctx := context.Background()

	if u := s.Resolve(ctx); u == nil {
		t.Fatal("Resolve returned nil")
	}
	s.Resolve(ctx)
	if g.meCalls != 1 {
		t.Fatalf("Me called %d times, want 1", g.meCalls)
	}
}

func TestStaleRejectionKeepsNewerLogin(t *testing.T) {
	g := newFakeGateway()
	g.tokens["tok-old"] = &model.User{ID: 4, Name: "Sam", Email: "student@college.edu", Role: model.RoleStudent}
	s := New(g, NewMemoryStorage("tok-old"))
	ctx := context.Background()
	s.Restore(ctx)

	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer srv.Close()
	conn := apiclient.New(srv.URL, 5*time.Second, zerolog.Nop()).As(s)

	errc := make(chan error, 1)
	go func() {
		_, err := conn.ListCourses(ctx)
		errc <- err
	}()

	<-started
	if _, err := s.Login(ctx, model.Credentials{Email: "teacher@college.edu", Password: "secret"}); err != nil {
		t.Fatal(err)
	}
	close(release)

	var authErr *apiclient.AuthorizationError
	if err := <-errc; !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want *AuthorizationError", err)
	}
	if s.Token() != "tok-teacher" || s.CurrentUser() == nil {
		t.Fatalf("late 401 for the old token cleared the new session (token %q)", s.Token())
	}
}
