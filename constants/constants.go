// Package constants contains the build version and the Mayachain constant names mayaquery reads
package constants

import (
	"fmt"

	"github.com/blang/semver"
)

var (
	GitCommit string // sha1 revision used to build the program
	BuildTime string // when the executable was built
	Version   string // software version
)

// The version of this software
var SWVersion, _ = semver.Make(Version)

// VersionString return a one line description of the build
func VersionString(name string) string {
	version := Version
	if version == "" {
		version = "0.0.0-dev"
	}
	return fmt.Sprintf("%s v%s, rev %s, built %s", name, version, GitCommit, BuildTime)
}
