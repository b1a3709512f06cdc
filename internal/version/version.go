package version

import (
	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/common/version"
)

const Program = "ory_session_page"

// Set at build time with -ldflags "-X ory-session-page/internal/version.Version=...".
var (
	Version   string = "dev"
	GitCommit string = "unknown"
	BuildTime string = "unknown"
)

func init() {
	version.Version = Version
	version.Revision = GitCommit
	version.BuildDate = BuildTime
}

func GetFullVersion() string {
	return Version + " (commit: " + GitCommit + ", built: " + BuildTime + ")"
}

// Print returns the multi-line build report used by the -version flag.
func Print() string {
	return version.Print(Program)
}

// Register exposes the build info as the <program>_build_info gauge.
func Register(reg prometheus.Registerer) error {
	return reg.Register(versioncollector.NewCollector(Program))
}
