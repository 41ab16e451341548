package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
)

// writerHook duplicates every entry into all configured writers
type writerHook struct {
	Writer    []io.Writer
	LogLevels []logrus.Level
}

func (hook *writerHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	for _, w := range hook.Writer {
		_, _ = w.Write([]byte(line))
	}
	return err
}

func (hook *writerHook) Levels() []logrus.Level {
	return hook.LogLevels
}

var e *logrus.Entry

type Logger struct {
	*logrus.Entry
}

func GetLogger() *Logger {
	return &Logger{e}
}

func (l *Logger) GetLoggerWithField(k string, v interface{}) *Logger {
	return &Logger{l.WithField(k, v)}
}

func SetLevelDebug() {
	e.Logger.SetLevel(logrus.DebugLevel)
}

func init() {
	l := logrus.New()
	l.SetReportCaller(true)
	l.Formatter = &logrus.TextFormatter{
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := path.Base(f.File)
			return fmt.Sprintf("%s()", f.Function), fmt.Sprintf("%s:%d", filename, f.Line)
		},
		DisableColors: true,
		FullTimestamp: true,
	}

	writers := []io.Writer{os.Stdout}

	err := os.MkdirAll("logs", 0770)
	if err != nil {
		l.Errorf("failed os.MkdirAll logs, error: %v", err)
	} else {
		allFile, err := os.OpenFile("logs/all.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			l.Errorf("failed open logs/all.log, error: %v", err)
		} else {
			writers = append(writers, allFile)
		}
	}

	l.SetOutput(io.Discard)

	l.AddHook(&writerHook{
		Writer:    writers,
		LogLevels: logrus.AllLevels,
	})

	l.SetLevel(logrus.InfoLevel)

	e = logrus.NewEntry(l)
}
