package buildinfo

// These variables are intended to be set via -ldflags at build time:
//
//	-X 'github.com/Jahongir0126/notificate-bot/core/buildinfo.Version=v1.0.0'
//	-X 'github.com/Jahongir0126/notificate-bot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/Jahongir0126/notificate-bot/core/buildinfo.Date=2024-06-01T09:00:00Z'
var (
	// Version reports the semantic version or tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)
