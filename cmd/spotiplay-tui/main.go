package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/royal-15/SpotiPlay-Desktop/internal/config"
	"github.com/royal-15/SpotiPlay-Desktop/internal/download"
	"github.com/royal-15/SpotiPlay-Desktop/internal/logutils"
	"github.com/royal-15/SpotiPlay-Desktop/internal/tui"
)

func main() {
	var (
		configFlag  = flag.String("config", "", "Path to config file (default: user config dir)")
		logFileFlag = flag.String("log-file", "", "Log file (default: next to the config file)")
	)
	flag.Parse()

	path := *configFlag
	if path == "" {
		path = config.DefaultPath()
	}
	settings, loadErr := config.Load(path)
	if loadErr != nil && !errors.Is(loadErr, config.ErrCorrupt) {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", loadErr)
		os.Exit(1)
	}

	// the screen belongs to the UI, logs go to a file
	logFile := *logFileFlag
	if logFile == "" {
		logFile = filepath.Join(filepath.Dir(path), "spotiplay.log")
	}
	closer, err := logutils.Init(logutils.Options{Level: settings.LogLevel, File: logFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	if loadErr != nil {
		logrus.WithError(loadErr).WithField("path", path).Warn("Using default settings")
	}

	bridge := tui.NewBridge()
	manager := download.NewManager(settings, bridge)

	err = tui.Run(manager, bridge, settings.OutputDir)
	manager.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
