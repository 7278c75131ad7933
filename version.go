package moodletl

// Version information for moodletl.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/moodletl.GitCommit=abc1234"
const (
	// Name is the application name.
	Name = "moodletl"

	// Description is a short description of the application.
	Description = "Bilingual {mlang} translation of Moodle courses and question banks"

	// Version is the semantic version of the application.
	Version = "0.3.0"
)

// BuildInfo contains build-time information.
var (
	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with optional build info.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}
