//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/stemsi/campus-portal/internal/model"
)

// The suite expects a running devapi and portal-web pair, both started with
// the default seed.
const (
	defaultAPIURL    = "http://localhost:8000"
	defaultPortalURL = "http://localhost:3000"
	adminEmail       = "admin@college.edu"
	hodEmail         = "hod@college.edu"
	studentEmail     = "student@college.edu"
	teacherPass      = "password123"
)

var (
	apiURL       string
	portalURL    string
	seedPassword string
	runID        string
	adminToken   string
	teacherToken string
	teacherEmail string
	courseID     int
	studentID    int
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	apiURL = envOr("API_BASE_URL", defaultAPIURL)
	portalURL = envOr("PORTAL_URL", defaultPortalURL)
	seedPassword = envOr("SEED_PASSWORD", "password123")

	// The API keeps its state while it runs, so every run uses fresh names.
	runID = fmt.Sprintf("%d", time.Now().UnixNano())
	teacherEmail = "e2e_teacher_" + runID + "@college.edu"

	os.Exit(m.Run())
}

func TestE2EFlow(t *testing.T) {
	// Step 1: Login as Admin
	t.Run("AdminLogin", func(t *testing.T) {
		adminToken = token(t, adminEmail, seedPassword)

		resp, err := get("/users/me", adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var me model.User
		decodeJSON(t, resp, &me)
		if me.Role != model.RoleAdmin {
			t.Fatalf("role = %q", me.Role)
		}
	})

	// Step 2: Create Teacher (Admin)
	t.Run("CreateTeacher", func(t *testing.T) {
		reqBody := model.NewUser{
			Name:     "E2E Teacher",
			Email:    teacherEmail,
			Password: teacherPass,
			Role:     model.RoleTeacher,
		}
		resp, err := post("/admin/create-user", reqBody, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	// Step 2b: Create Duplicate Teacher (Expect 400)
	t.Run("CreateDuplicateTeacher", func(t *testing.T) {
		reqBody := model.NewUser{
			Name:     "E2E Teacher",
			Email:    strings.ToUpper(teacherEmail),
			Password: teacherPass,
			Role:     model.RoleTeacher,
		}
		resp, err := post("/admin/create-user", reqBody, adminToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		var body struct {
			Detail string `json:"detail"`
		}
		decodeJSON(t, resp, &body)
		if body.Detail != "Email already registered" {
			t.Errorf("detail = %q", body.Detail)
		}
	})

	// Step 3: Create Course (Head of Department)
	t.Run("CreateCourse", func(t *testing.T) {
		hodToken := token(t, hodEmail, seedPassword)
		reqBody := model.CourseInput{
			Name: "E2E Course " + runID,
			Code: "E2E" + runID[len(runID)-6:],
		}
		resp, err := post("/courses/", reqBody, hodToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		var course model.Course
		decodeJSON(t, resp, &course)
		courseID = course.ID
		if courseID == 0 {
			t.Fatal("course ID missing")
		}
	})

	// Step 4: Teacher loads the roster
	t.Run("TeacherRoster", func(t *testing.T) {
		teacherToken = token(t, teacherEmail, teacherPass)

		resp, err := get(fmt.Sprintf("/courses/%d/students", courseID), teacherToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var students []model.User
		decodeJSON(t, resp, &students)
		for _, s := range students {
			if s.Email == studentEmail {
				studentID = s.ID
			}
		}
		if studentID == 0 {
			t.Fatalf("%s not on roster", studentEmail)
		}
	})

	// Step 5: Teacher takes attendance and grades
	t.Run("TeacherRecords", func(t *testing.T) {
		attendance := model.AttendanceSubmission{Records: []model.AttendanceEntry{
			{StudentID: studentID, Status: model.AttendancePresent},
		}}
		resp, err := post(fmt.Sprintf("/attendance/courses/%d/date/2024-03-01", courseID), attendance, teacherToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("attendance status %d", resp.StatusCode)
		}

		grade := model.GradeInput{StudentID: studentID, AssignmentName: "Midterm", Score: 91}
		resp, err = post(fmt.Sprintf("/grades/courses/%d", courseID), grade, teacherToken)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("grade status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	// Step 6: Student sees the grade
	t.Run("StudentGrades", func(t *testing.T) {
		resp, err := get("/grades/my-grades", token(t, studentEmail, seedPassword))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var grades []model.Grade
		decodeJSON(t, resp, &grades)
		found := false
		for _, g := range grades {
			if g.CourseID == courseID && g.AssignmentName == "Midterm" && g.Score == 91 {
				found = true
			}
		}
		if !found {
			t.Errorf("grade not visible to student: %+v", grades)
		}
	})

	// Step 7: Teacher is forbidden from deleting
	t.Run("TeacherCannotDelete", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/courses/%d", apiURL, courseID), nil)
		req.Header.Set("Authorization", "Bearer "+teacherToken)
		resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status %d, want 403", resp.StatusCode)
		}
	})

	// Step 8: Portal login and dashboard
	t.Run("PortalDashboard", func(t *testing.T) {
		jar, _ := cookiejar.New(nil)
		client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

		resp, err := client.PostForm(portalURL+"/login", url.Values{
			"email":    {teacherEmail},
			"password": {teacherPass},
		})
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.Request.URL.Path != "/dashboard" {
			t.Fatalf("landed on %s", resp.Request.URL.Path)
		}
		body := readBody(resp)
		for _, want := range []string{"E2E Teacher", "Take Attendance", "Enter Grades"} {
			if !strings.Contains(body, want) {
				t.Errorf("dashboard missing %q", want)
			}
		}
	})
}

// Helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimRight(v, "/")
	}
	return fallback
}

func token(t *testing.T, email, password string) string {
	t.Helper()
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.PostForm(apiURL+"/auth/token", url.Values{
		"username": {email},
		"password": {password},
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", email, resp.StatusCode, readBody(resp))
	}
	var body model.TokenResponse
	decodeJSON(t, resp, &body)
	if body.AccessToken == "" {
		t.Fatal("token missing")
	}
	return body.AccessToken
}

func post(path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest("POST", apiURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func get(path string, token string) (*http.Response, error) {
	req, err := http.NewRequest("GET", apiURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("json decode: %v", err)
	}
}
