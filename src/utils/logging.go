package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging points the standard logger at stdout and, when logFile is set,
// also at a size-rotated file. The returned closer flushes the file.
func SetupLogging(logFile string) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if logFile == "" {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil)
	}

	target := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxAge:     28, // days
		MaxBackups: 5,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, target))
	return target
}

// LogWriter returns the writer the standard logger currently uses.
func LogWriter() io.Writer {
	return log.Writer()
}
