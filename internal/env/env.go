package env

const AppName = "extfix"

// Set at build time through -ldflags "-X".
var (
	Version    = "dev"
	CommitHash = "none"
	BuildTime  = "unknown"
)
