// Package version holds the release string, set at link time with
// -ldflags "-X tkfalign/internal/version.Version=v1.2.3".
package version

var Version = "dev"
