package logging

import (
	"io"
	"os"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the standard logrus logger. When LOG_FILE is set, output
// goes to both stdout and a size-rotated file.
func Setup(cfg *config.Config) io.Closer {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.LogFile == "" {
		logrus.SetOutput(os.Stdout)
		return io.NopCloser(nil)
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 5,
		LocalTime:  true,
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, rotating))
	return rotating
}
