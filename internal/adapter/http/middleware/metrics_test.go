package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/v1/users/01ABC", "/api/v1/users/:id"},
		{"/api/v1/users/01ABC/wallets", "/api/v1/users/:id/wallets"},
		{"/api/v1/users/01ABC/wallets/01DEF/switch", "/api/v1/users/:id/wallets/:id/switch"},
		{"/api/v1/wallets/01DEF/top-up", "/api/v1/wallets/:id/top-up"},
		{"/api/v1/transfers", "/api/v1/transfers"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.expected {
				t.Fatalf("normalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
