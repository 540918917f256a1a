package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateNChar(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"Generate 5 characters", 5, false},
		{"Generate 32 characters", 32, false},
		{"Generate 0 characters", 0, false},
		{"Generate negative characters", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateNChar(tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateNChar() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(got) != tt.n {
				t.Errorf("GenerateNChar() got = %v, want length %v", got, tt.n)
			}
		})
	}
}

func TestSessionToken(t *testing.T) {
	token := NewSessionToken()
	if !IsSessionToken(token) {
		t.Errorf("expected %q to be a session token", token)
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"Dashed uuid", "0b7c5a52-4f0e-4b1e-8a57-4f1c2a9d0e11", false},
		{"Path traversal", "../../../../etc/passwd............", false},
		{"Non hex", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", false},
		{"Empty", "", false},
		{"Hex uuid", "0b7c5a524f0e4b1e8a574f1c2a9d0e11", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSessionToken(tt.token); got != tt.want {
				t.Errorf("IsSessionToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestSecretEqual(t *testing.T) {
	if !SecretEqual("s3cret", "s3cret") {
		t.Error("expected equal secrets to match")
	}
	if SecretEqual("s3cret", "s3cre") || SecretEqual("", "x") {
		t.Error("expected different secrets not to match")
	}
}

func TestWriteSecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "admin_secret")

	secret, err := WriteSecretFile(path, 32)
	if err != nil {
		t.Fatalf("WriteSecretFile() error = %v", err)
	}
	if len(secret) != 32 {
		t.Errorf("secret length = %d, want 32", len(secret))
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(b)); got != secret {
		t.Errorf("file holds %q, want %q", got, secret)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %v, want 0600", perm)
	}
}
