// Package version carries the build version, overridden at link time via
// -ldflags "-X github.com/brickbot/sortbot/version.Version=...".
package version

var Version = "dev"
