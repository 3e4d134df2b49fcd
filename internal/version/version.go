package version

// Build metadata injected via -ldflags; defaults cover local development.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
)
