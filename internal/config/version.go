package config

// Version is the kioskd binary version.
// Set at build time via: -ldflags "-X github.com/reymarksuan121298-max/kiosk-mapping/internal/config.Version=<tag>"
var Version = "dev"
