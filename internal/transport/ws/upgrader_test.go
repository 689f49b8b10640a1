package ws

import (
	"net/http/httptest"
	"testing"
)

func TestUpgraderOriginPolicy(t *testing.T) {
	upgrader := NewUpgrader([]string{"https://jobs.example.com"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin header", "", true},
		{"configured origin", "https://jobs.example.com", true},
		{"localhost dev tab", "http://localhost:5173", true},
		{"foreign origin", "https://evil.example.net", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := upgrader.CheckOrigin(req); got != tt.want {
				t.Errorf("CheckOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
