package config

// Version is the maidbook binary version.
// Set at build time via: -ldflags "-X github.com/maidbook/maidbook/internal/config.Version=<tag>"
var Version = "dev"
