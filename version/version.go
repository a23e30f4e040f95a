// Package version reports build metadata stamped in via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/datareef/reef/version.Version=v0.3.0"
var (
	Version    = "dev"     // semantic version when built from a tag
	CommitHash = "dev"     // git commit the binary was built from
	BuildTime  = "unknown" // build timestamp
)

// Info is the version payload served by the health endpoint and the
// version command.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the build information for the running binary.
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("reef %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
}
