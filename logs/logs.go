package logs

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cube2222/lazyplan/config"
)

var Output *os.File

// Logger writes to stderr until InitializeFileLogger is called.
var Logger = logrus.New()

func InitializeFileLogger(cfg config.Logging) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return errors.Wrap(err, "couldn't parse log level")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return errors.Wrap(err, "couldn't create log directory")
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "couldn't create logs file")
	}
	Output = f

	Logger.SetOutput(Output)
	Logger.SetLevel(level)
	Logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
		FullTimestamp:   true,
	})
	return nil
}

// CloseLogger closes the log file and points the logger back at stderr.
func CloseLogger() {
	if Output != nil {
		Output.Close()
		Output = nil
	}
	Logger.SetOutput(os.Stderr)
}
