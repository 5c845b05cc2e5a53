package version

import (
	"testing"

	"github.com/fatih/color"
)

func override(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		version, commit, date string
		want                  string
	}{
		{"1.2.3", "", "", "reflq 1.2.3"},
		{"1.2.3", "abc123", "", "reflq 1.2.3 (abc123)"},
		{"0.1.0-dev", "1234567890abcdef1234", "2024-01-15", "reflq 0.1.0-dev (1234567890ab) built 2024-01-15"},
	}
	for _, tc := range cases {
		override(t, tc.version, tc.commit, tc.date)
		if got := String(false); got != tc.want {
			t.Errorf("String(false) = %q, want %q", got, tc.want)
		}
	}
}

func TestColoredKeepsText(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	for _, v := range []string{"0.1.0", "1.0.0-beta.1", "1.2.3-rc.1+build.123", "weird"} {
		override(t, v, "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}
