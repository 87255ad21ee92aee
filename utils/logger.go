package utils

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger

	loggerOnce sync.Once
)

// InitLogger sets up the two shared loggers: info to stdout, errors to
// stderr. Safe to call more than once; tests from several packages all
// go through here.
func InitLogger() {
	loggerOnce.Do(func() {
		InfoLogger = logrus.New()
		InfoLogger.SetOutput(os.Stdout)
		InfoLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		InfoLogger.SetLevel(logrus.InfoLevel)

		ErrorLogger = logrus.New()
		ErrorLogger.SetOutput(os.Stderr)
		ErrorLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		ErrorLogger.SetLevel(logrus.ErrorLevel)
	})
}
