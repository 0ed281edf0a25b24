// Package version holds the application version, set at build time with
//
//	go build -ldflags "-X github.com/ndewijer/fund-ledger/internal/version.Version=1.2.3"
package version

// Version is the application version.
var Version = "dev"
