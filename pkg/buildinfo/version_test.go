package buildinfo

import (
	"strings"
	"testing"
)

func TestStringIncludesFields(t *testing.T) {
	old := Commit
	Commit = "abc1234"
	defer func() { Commit = old }()

	s := String()
	for _, want := range []string{"version:", "commit: abc1234", "built:"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestResolvedPrefersLdflags(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if got := Resolved(); got != "v1.2.3" {
		t.Errorf("Resolved() = %q, want v1.2.3", got)
	}
	if got := UserAgent(); got != "roadline/v1.2.3" {
		t.Errorf("UserAgent() = %q", got)
	}
}
