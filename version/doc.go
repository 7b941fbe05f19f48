// Package version reports the build version of jsonkit binaries.
//
// Version and Commit are set at link time; otherwise they are read from the
// module build info:
//
//	go build -ldflags "-X github.com/kbukum/jsonkit/version.Version=1.2.0" ./cmd/jsonfetch
package version
