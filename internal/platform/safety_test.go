package platform

import "testing"

func TestIsDevBinary(t *testing.T) {
	tests := []struct {
		exe  string
		want bool
	}{
		{"/tmp/go-build123/b001/exe/jot", true},
		{"/home/me/src/jot/cmd/jot/jot.test", true},
		{`C:\work\jot.test.exe`, true},
		{"/usr/local/bin/jot", false},
	}
	for _, tt := range tests {
		if got := isDevBinary(tt.exe, "/tmp"); got != tt.want {
			t.Errorf("isDevBinary(%q) = %v, want %v", tt.exe, got, tt.want)
		}
	}
}
