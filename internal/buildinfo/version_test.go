package buildinfo

import "testing"

func TestString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	tests := []struct {
		version, commit, want string
	}{
		{"", "", "dev"},
		{"v1.2.0", "", "v1.2.0"},
		{"v1.2.0", "3f2c1a9d0e", "v1.2.0 (3f2c1a9)"},
		{"v1.2.0", "abc", "v1.2.0 (abc)"},
	}

	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}
