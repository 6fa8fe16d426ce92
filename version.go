package quicklang

// Version information for quicklang.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/quicklang.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "quicklang"

	// Description is a short description of the application.
	Description = "Quick language helper - AI translation with duplicate request protection"

	// Version is the semantic version of the application.
	Version = "0.3.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/quicklang"
)

// Build information, set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit, if known.
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

// UserAgent returns a user agent string for outgoing HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
