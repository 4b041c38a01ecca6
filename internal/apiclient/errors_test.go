package apiclient

import "testing"

func TestExtractDetail(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Course code already exists"}`, "Course code already exists"},
		{"validation list", `{"detail":[{"loc":["body","email"],"msg":"field required"},{"msg":"too short"}]}`, "field required; too short"},
		{"error envelope", `{"error":{"code":"NOT_FOUND","message":"Course not found"}}`, "Course not found"},
		{"not json", `<html>bad gateway</html>`, ""},
		{"empty object", `{}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractDetail([]byte(tc.body)); got != tc.want {
				t.Errorf("extractDetail(%s) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}
