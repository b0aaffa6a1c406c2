package common

import "fmt"

// BuildConfig carries the version information injected at link time.
type BuildConfig struct {
	BuildVersion string
	BuildCommit  string
	BuildDate    string
}

// String renders the build info for the version command.
func (b *BuildConfig) String() string {
	version := b.BuildVersion
	if version == "" {
		version = "dev"
	}
	out := fmt.Sprintf("vkdisk %s", version)
	if b.BuildCommit != "" {
		out += fmt.Sprintf("\nCommit: %s", b.BuildCommit)
	}
	if b.BuildDate != "" {
		out += fmt.Sprintf("\nBuilt: %s", b.BuildDate)
	}
	return out
}
