package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMessageRoleValid(t *testing.T) {
	tests := []struct {
		role MessageRole
		want bool
	}{
		{RoleUser, true},
		{RoleAssistant, true},
		{MessageRole("system"), false},
		{MessageRole(""), false},
		{MessageRole("User"), false},
	}

	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.want {
			t.Errorf("MessageRole(%q).Valid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestUserPasswordHashNeverSerializes(t *testing.T) {
	u := User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret",
	}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("password hash leaked into JSON: %s", data)
	}
	if strings.Contains(string(data), "password") {
		t.Errorf("password field present in JSON: %s", data)
	}
}

func TestWebsiteOmitsCategoriesUntilCompleted(t *testing.T) {
	w := Website{URL: "https://example.com", Status: StatusProcessing}

	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "categories") {
		t.Errorf("nil categories should be omitted: %s", data)
	}
	if strings.Contains(string(data), "error_message") {
		t.Errorf("empty error message should be omitted: %s", data)
	}
}
