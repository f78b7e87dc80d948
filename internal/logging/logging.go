// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level string `yaml:"level"`
	// Directory log files are rotated in. Empty disables file logging.
	Directory string `yaml:"directory"`
	// DisableDisplaying mutes the console core.
	DisableDisplaying bool `yaml:"disableDisplaying"`

	MaxSize  int  `yaml:"maxSize"`  // megabytes
	MaxAge   int  `yaml:"maxAge"`   // days
	MaxFiles int  `yaml:"maxFiles"` // files
	Compress bool `yaml:"compress"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:    logging.Info.String(),
		MaxSize:  8,
		MaxAge:   0,
		MaxFiles: 7,
	}
}

// New builds a logger named [name] writing colored output to stderr and,
// when a directory is configured, JSON lines to a rotated file.
func New(name string, config Config) (logging.Logger, error) {
	return newLogger(name, config, os.Stderr)
}

func newLogger(name string, config Config, display io.WriteCloser) (logging.Logger, error) {
	level, err := logging.ToLevel(config.Level)
	if err != nil {
		return nil, err
	}

	if config.DisableDisplaying {
		display = newDiscardWriteCloser()
	}
	consoleCore := logging.NewWrappedCore(level, display, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = config.DisableDisplaying
	cores := []logging.WrappedCore{consoleCore}

	if config.Directory != "" {
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(config.Directory, name+".log"),
			MaxSize:    config.MaxSize,
			MaxAge:     config.MaxAge,
			MaxBackups: config.MaxFiles,
			Compress:   config.Compress,
		}
		cores = append(cores, logging.NewWrappedCore(level, rw, logging.JSON.FileEncoder()))
	}
	return logging.NewLogger(logging.Plain.WrapPrefix(name), cores...), nil
}

type discardWriteCloser struct {
	io.Writer
}

func newDiscardWriteCloser() *discardWriteCloser {
	return &discardWriteCloser{io.Discard}
}

func (*discardWriteCloser) Close() error {
	return nil
}
