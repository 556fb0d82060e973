package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/sigil-dev/sigil/pkg/api"
)

// meID fetches the caller's own user ID.
func meID(t *testing.T, tok string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodGet, "/api/v1/users/me", tok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d, body %s", resp.StatusCode, body)
	}
	var me api.UserResponse
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	return me.ID
}

func TestAdminListsUsers(t *testing.T) {
	registerUser(t, "listed@example.com")
	adminTok := authenticate(t, adminEmail, adminPassword)

	resp, body := doJSON(t, http.MethodGet, "/api/v1/admin/users", adminTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var list []api.UserResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	seen := map[string]bool{}
	for _, u := range list {
		seen[u.Email] = true
	}
	if !seen[adminEmail] || !seen["listed@example.com"] {
		t.Errorf("list missing expected users: %v", seen)
	}
}

func TestUserCannotAccessAdminRoutes(t *testing.T) {
	tok := registerUser(t, "plain@example.com")

	resp, body := doJSON(t, http.MethodGet, "/api/v1/admin/users", tok, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (body %s)", resp.StatusCode, body)
	}
	envlp := decodeEnvelope(t, body)
	if envlp.Error != api.CodeForbidden {
		t.Errorf("error = %q, want FORBIDDEN", envlp.Error)
	}
}

func TestAdminDeletesUser(t *testing.T) {
	userTok := registerUser(t, "doomed@example.com")
	userID := meID(t, userTok)
	adminTok := authenticate(t, adminEmail, adminPassword)

	resp, body := doJSON(t, http.MethodDelete, "/api/v1/admin/delete/"+userID, adminTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var msg api.MessageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if msg.Message != fmt.Sprintf("user %s deleted", userID) {
		t.Errorf("message = %q", msg.Message)
	}

	// The deleted user's still-valid token is now anonymous.
	resp, body = doJSON(t, http.MethodGet, "/api/v1/users/me", userTok, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("me after delete: status %d, body %s", resp.StatusCode, body)
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	adminTok := authenticate(t, adminEmail, adminPassword)
	adminID := meID(t, adminTok)

	resp, body := doJSON(t, http.MethodDelete, "/api/v1/admin/delete/"+adminID, adminTok, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", resp.StatusCode, body)
	}
	envlp := decodeEnvelope(t, body)
	if envlp.Error != api.CodeBadRequest {
		t.Errorf("error = %q, want BAD_REQUEST", envlp.Error)
	}
	if envlp.Message != "you cannot delete your own account" {
		t.Errorf("message = %q", envlp.Message)
	}

	// Still able to act afterwards.
	resp, _ = doJSON(t, http.MethodGet, "/api/v1/users/me", adminTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("me after self-delete attempt: status %d", resp.StatusCode)
	}
}

func TestDeleteUnknownUser(t *testing.T) {
	adminTok := authenticate(t, adminEmail, adminPassword)

	resp, body := doJSON(t, http.MethodDelete, "/api/v1/admin/delete/11111111-1111-1111-1111-111111111111", adminTok, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", resp.StatusCode, body)
	}
	envlp := decodeEnvelope(t, body)
	if envlp.Error != api.CodeNotFound {
		t.Errorf("error = %q, want NOT_FOUND", envlp.Error)
	}
}
