// Package logging routes the process log output according to the logging configuration
package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/amirphl/panel-registry/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output is the destination chosen by Setup. Writer also feeds the HTTP access log.
type Output struct {
	Writer io.Writer
	file   *lumberjack.Logger
}

// Close releases the rotating log file, if any
func (o *Output) Close() error {
	if o == nil || o.file == nil {
		return nil
	}
	return o.file.Close()
}

// NewOutput builds the writer for cfg.Output: stdout, a rotating file, or both
func NewOutput(cfg config.LoggingConfig) (*Output, error) {
	switch cfg.Output {
	case "", "stdout":
		return &Output{Writer: os.Stdout}, nil
	case "file", "both":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log file path is required for output %q", cfg.Output)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		if cfg.Output == "file" {
			return &Output{Writer: file, file: file}, nil
		}
		return &Output{Writer: io.MultiWriter(os.Stdout, file), file: file}, nil
	default:
		return nil, fmt.Errorf("unsupported log output %q", cfg.Output)
	}
}

// Setup points the standard logger at the configured output
func Setup(cfg config.LoggingConfig) (*Output, error) {
	out, err := NewOutput(cfg)
	if err != nil {
		return nil, err
	}

	log.SetOutput(out.Writer)
	log.SetFlags(log.LstdFlags | log.LUTC | log.Lmicroseconds)
	return out, nil
}
