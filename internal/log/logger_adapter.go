package log

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

type LoggerConfig struct {
	Level     string           `yaml:"level" mapstructure:"level"`
	Pattern   string           `yaml:"pattern" mapstructure:"pattern"`
	Time      string           `yaml:"time" mapstructure:"time"`
	Appenders []AppenderConfig `yaml:"appenders" mapstructure:"appenders"`
}

type AppenderConfig struct {
	Type    string                 `yaml:"type" mapstructure:"type"`
	Options map[string]interface{} `yaml:"options,omitempty" mapstructure:"options"`
}

// DefaultConfig is console-only info logging.
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:   "info",
		Pattern: "%time [%level] %caller: %msg%n",
		Time:    "2006-01-02 15:04:05",
		Appenders: []AppenderConfig{
			{Type: "console"},
		},
	}
}

type logrusAdapter struct {
	entry *logrus.Entry
}

func initByConfig(cfg *LoggerConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	l := logrus.New()
	l.SetFormatter(&formatter{
		pattern: cfg.Pattern,
		time:    cfg.Time,
	})
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	mw := NewMultiWriter()
	for _, app := range cfg.Appenders {
		switch app.Type {
		case "", "console":
			mw.Add(os.Stdout)
		case "file":
			var opt FileAppenderOpt
			if err := mapstructure.Decode(app.Options, &opt); err != nil {
				return fmt.Errorf("invalid file appender options: %w", err)
			}
			if opt.Filename == "" {
				return fmt.Errorf("file appender requires a filename")
			}
			mw.AddFileAppender(opt)
		default:
			return fmt.Errorf("unsupported appender type: %s", app.Type)
		}
	}
	if len(cfg.Appenders) == 0 {
		mw.Add(os.Stdout)
	}
	l.SetOutput(mw)

	logger = &logrusAdapter{
		entry: logrus.NewEntry(l),
	}
	return nil
}

func (l *logrusAdapter) Print(args ...interface{})                 { l.entry.Print(args...) }
func (l *logrusAdapter) Printf(format string, args ...interface{}) { l.entry.Printf(format, args...) }

func (l *logrusAdapter) Trace(args ...interface{})                 { l.entry.Trace(args...) }
func (l *logrusAdapter) Tracef(format string, args ...interface{}) { l.entry.Tracef(format, args...) }

func (l *logrusAdapter) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *logrusAdapter) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }

func (l *logrusAdapter) Info(args ...interface{})                 { l.entry.Info(args...) }
func (l *logrusAdapter) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }

func (l *logrusAdapter) Warn(args ...interface{})                 { l.entry.Warn(args...) }
func (l *logrusAdapter) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }

func (l *logrusAdapter) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *logrusAdapter) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *logrusAdapter) Fatal(args ...interface{})                 { l.entry.Fatal(args...) }
func (l *logrusAdapter) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

func (l *logrusAdapter) Panic(args ...interface{})                 { l.entry.Panic(args...) }
func (l *logrusAdapter) Panicf(format string, args ...interface{}) { l.entry.Panicf(format, args...) }

func (l *logrusAdapter) WithField(field string, value interface{}) Logger {
	return &logrusAdapter{entry: l.entry.WithField(field, value)}
}
func (l *logrusAdapter) WithFields(fields map[string]interface{}) Logger {
	return &logrusAdapter{entry: l.entry.WithFields(fields)}
}
func (l *logrusAdapter) WithError(err error) Logger {
	return &logrusAdapter{entry: l.entry.WithError(err)}
}

func (l *logrusAdapter) IsTraceEnabled() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.TraceLevel)
}
func (l *logrusAdapter) IsDebugEnabled() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.DebugLevel)
}
func (l *logrusAdapter) IsInfoEnabled() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.InfoLevel)
}
