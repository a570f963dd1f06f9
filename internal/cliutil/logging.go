package cliutil

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the logrus.Logger both cmd/ front ends use: text output
// to stderr (stdout is reserved for decode/profile results), level set from
// verbose. Library packages (internal/session, internal/registry, ...) log
// through the standard logrus package-level logger this configures, the
// same way the teacher's library code writes to whatever log.SetOutput
// installed rather than owning its own logger.
func NewLogger(verbose bool) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
