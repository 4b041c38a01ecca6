package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/config"
	"github.com/stemsi/campus-portal/internal/devapi"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/session"
	"github.com/stemsi/campus-portal/internal/validator"
)

const password = "password123"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type harness struct {
	app     *devapi.App
	api     *apiclient.Client
	storage *session.MemoryStorage
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	app := devapi.New(&config.Config{
		GinMode:    gin.TestMode,
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}, zerolog.Nop())
	if err := app.Seed(context.Background(), password); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(app.Engine)
	t.Cleanup(srv.Close)

	return &harness{
		app:     app,
		api:     apiclient.New(srv.URL, 5*time.Second, zerolog.Nop()),
		storage: session.NewMemoryStorage(""),
	}
}

// cli returns a fresh process-like client sharing the harness token storage.
func (h *harness) cli(input string) (*cli, *bytes.Buffer) {
	var out bytes.Buffer
	store := session.New(h.api, h.storage)
	c := newCLI(h.api, store, strings.NewReader(input), &out)
	c.readPassword = func() (string, error) { return password, nil }
	return c, &out
}

func (h *harness) login(t *testing.T, email string) {
	t.Helper()
	c, out := h.cli(email + "\n")
	if err := c.run(context.Background(), "login"); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	if !strings.Contains(out.String(), "Welcome, ") {
		t.Fatalf("login output = %q", out.String())
	}
}

func TestWhoamiRequiresLogin(t *testing.T) {
	h := newHarness(t)
	c, _ := h.cli("")
	if err := c.run(context.Background(), "whoami"); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("err = %v, want errNotLoggedIn", err)
	}
}

func TestLoginPersistsAcrossRuns(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher@college.edu")

	c, out := h.cli("")
	if err := c.run(context.Background(), "whoami"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Tara Teacher", "Role: Teacher", "Take Attendance", "/manage-grades"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("whoami output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "System Administration") {
		t.Errorf("teacher sees admin link:\n%s", out.String())
	}
}

func TestLoginFailureShowsReason(t *testing.T) {
	h := newHarness(t)
	c, _ := h.cli("student@college.edu\n")
	c.readPassword = func() (string, error) { return "wrong", nil }

	err := c.run(context.Background(), "login")
	if err == nil || err.Error() != "Incorrect email or password" {
		t.Fatalf("err = %v", err)
	}
	if tok, _ := h.storage.Load(context.Background()); tok != "" {
		t.Errorf("token stored after failed login")
	}
}

func TestStudentCommandsDeniedToTeacher(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher@college.edu")

	for _, name := range []string{"my-grades", "my-attendance"} {
		c, _ := h.cli("")
		if err := c.run(context.Background(), name); !errors.Is(err, errNotAllowed) {
			t.Errorf("%s: err = %v, want errNotAllowed", name, err)
		}
	}
}

func TestMyGradesAndAttendance(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	students, err := h.app.Courses.Students(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	sam := students[0]
	if _, err := h.app.Records.SubmitGrade(ctx, 1, model.GradeInput{StudentID: sam.ID, AssignmentName: "Essay", Score: 93}); err != nil {
		t.Fatal(err)
	}
	for _, day := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"} {
		status := model.AttendancePresent
		if day == "2024-03-04" {
			status = model.AttendanceAbsent
		}
		if err := h.app.Records.SubmitAttendance(ctx, 1, day, []model.AttendanceEntry{{StudentID: sam.ID, Status: status}}); err != nil {
			t.Fatal(err)
		}
	}

	h.login(t, "student@college.edu")

	c, out := h.cli("")
	if err := c.run(ctx, "my-grades"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Essay") || !strings.Contains(out.String(), "excellent") {
		t.Errorf("my-grades output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "No grades recorded.") {
		t.Errorf("course without grades not marked:\n%s", out.String())
	}

	c, out = h.cli("")
	if err := c.run(ctx, "my-attendance"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "75%") || !strings.Contains(out.String(), "N/A") {
		t.Errorf("my-attendance output:\n%s", out.String())
	}
}

func TestRejectedStoredTokenIsCleared(t *testing.T) {
	h := newHarness(t)
	if err := h.storage.Save(context.Background(), "expired-token"); err != nil {
		t.Fatal(err)
	}

	c, _ := h.cli("")
	if err := c.run(context.Background(), "courses"); !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("err = %v, want errNotLoggedIn", err)
	}
	if tok, _ := h.storage.Load(context.Background()); tok != "" {
		t.Errorf("rejected token kept: %q", tok)
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login(t, "hod@college.edu")

	c, _ := h.cli("")
	if err := c.run(context.Background(), "logout"); err != nil {
		t.Fatal(err)
	}
	c, _ = h.cli("")
	if err := c.run(context.Background(), "courses"); !errors.Is(err, errNotLoggedIn) {
		t.Errorf("after logout: err = %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	c, out := h.cli("")
	if err := c.run(context.Background(), "frobnicate"); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out.String(), "usage: portalctl") {
		t.Errorf("usage not printed:\n%s", out.String())
	}
}
