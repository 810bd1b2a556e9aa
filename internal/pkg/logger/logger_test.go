package logger

import "testing"

func TestRedactSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{"typical key", "a1b2c3d4e5f6", "a1b2***"},
		{"short key", "abcd", "***"},
		{"empty", "", ""},
		{"five chars", "abcde", "abcd***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactSecret(tt.secret); got != tt.want {
				t.Errorf("RedactSecret(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestRedactSecretValue(t *testing.T) {
	if got := redactSecretValue("api_key", "supersecretkey"); got != "supe***" {
		t.Errorf("api_key field not redacted: %q", got)
	}
	if got := redactSecretValue("client_id", "12345"); got != "12345" {
		t.Errorf("non-secret field was redacted: %q", got)
	}
	if got := redactSecretValue("OZON_API_KEY", "supersecretkey"); got != "supe***" {
		t.Errorf("upper-case secret field not redacted: %q", got)
	}
}
