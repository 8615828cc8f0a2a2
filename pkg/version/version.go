package version

import "fmt"

var (
	version      = "0.1-dev"
	revision     = "$Format:%h$"
	revisionDate = "$Format:%as$"
)

// Version returns `VERSION (REVISIONDATE REVISION)`; the revision values are
// substituted at build time.
func Version() string {
	return fmt.Sprintf("%v (%v %v)", version, revisionDate, revision)
}
