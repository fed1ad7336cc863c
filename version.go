package tilemul

import (
	"runtime/debug"
)

const modulePath = "github.com/tilekit/tilemul"

// Version returns the module version and checksum recorded in the
// build info. The returned values are only valid in binaries built
// with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	if b.Main.Path == modulePath {
		return b.Main.Version, b.Main.Sum
	}
	for _, m := range b.Deps {
		if m.Path == modulePath {
			return m.Version, m.Sum
		}
	}
	return "", ""
}
