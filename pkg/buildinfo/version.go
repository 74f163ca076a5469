// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/rvno/roadline/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/rvno/roadline/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/rvno/roadline/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)"
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Resolved returns Version, falling back to the module version recorded by
// `go install` when no ldflags were given.
func Resolved() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Resolved(), Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Resolved(), Commit, Date)
}

// UserAgent identifies roadline in outgoing requests and the API's Server header.
func UserAgent() string {
	return "roadline/" + Resolved()
}
