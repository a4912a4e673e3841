package version

// Set at build time via -ldflags "-X github.com/ChristianF88/lsdsort/version.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
