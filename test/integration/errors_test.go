package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/sigil-dev/sigil/pkg/api"
)

func TestUnauthenticatedRequests(t *testing.T) {
	tests := []struct {
		name   string
		bearer string
	}{
		{"no token", ""},
		{"garbage token", "not-a-jwt"},
		{"structurally valid forged token", forgedToken(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodGet, "/api/v1/users/me", tt.bearer, nil)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401 (body %s)", resp.StatusCode, body)
			}
			envlp := decodeEnvelope(t, body)
			if envlp.Error != api.CodeUnauthorized {
				t.Errorf("error = %q, want UNAUTHORIZED", envlp.Error)
			}
			if envlp.Path != "/api/v1/users/me" {
				t.Errorf("path = %q", envlp.Path)
			}
		})
	}
}

// forgedToken builds a token-shaped string that no codec in the server
// signed.
func forgedToken(t *testing.T) string {
	t.Helper()
	return strings.Join([]string{
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9",
		"eyJzdWIiOiJhZG1pbkBhZG1pbi5jb20iLCJleHAiOjk5OTk5OTk5OTl9",
		"Zm9yZ2VkLXNpZ25hdHVyZQ",
	}, ".")
}

func TestUnknownRouteEnvelope(t *testing.T) {
	resp, body := doJSON(t, http.MethodGet, "/api/v1/does-not-exist", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", resp.StatusCode, body)
	}
	envlp := decodeEnvelope(t, body)
	if envlp.Error != api.CodeNotFound {
		t.Errorf("error = %q, want NOT_FOUND", envlp.Error)
	}
}

func TestErrorResponsesAreJSON(t *testing.T) {
	resp, _ := doJSON(t, http.MethodGet, "/api/v1/users/me", "", nil)
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, testEnv.Server.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("X-Request-ID", "integration-test-id")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("sending request: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "integration-test-id" {
		t.Errorf("X-Request-ID = %q", got)
	}
}

func TestHealthz(t *testing.T) {
	resp, _ := doJSON(t, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
