// Package logging constructs the structured logger used throughout this
// module, mirroring the teacher's spacecraft.go SCLogInit pattern: a logfmt
// logger over stdout tagged with a "subsys" key distinguishing components.
package logging

import (
	"os"

	"github.com/go-kit/kit/log"
)

// New builds a logfmt logger over os.Stdout with "subsys" set to the given
// component name (e.g. "harness", "sim", "catalog").
func New(subsys string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
	return log.With(logger, "subsys", subsys, "ts", log.DefaultTimestampUTC)
}
