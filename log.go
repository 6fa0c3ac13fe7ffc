package sigma

import (
	"github.com/sirupsen/logrus"

	"github.com/privacybydesign/sigma/group"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
	group.Logger = Logger
}

// SetLogger replaces the logger of this package and of package group.
func SetLogger(logger *logrus.Logger) {
	Logger = logger
	group.Logger = logger
}
