package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/royal-15/SpotiPlay-Desktop/internal/classify"
	"github.com/royal-15/SpotiPlay-Desktop/internal/config"
	"github.com/royal-15/SpotiPlay-Desktop/internal/download"
	ioutils "github.com/royal-15/SpotiPlay-Desktop/internal/io"
	"github.com/royal-15/SpotiPlay-Desktop/internal/logutils"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Command line flags
	var (
		modeFlag     = flag.String("mode", "auto", "Input mode: auto, spotify, youtube, search-youtube, search-spotify")
		qualityFlag  = flag.String("quality", "", "Audio quality: Best, 320kbps, 256kbps, 192kbps, 128kbps (overrides config)")
		formatFlag   = flag.String("format", "", "Audio format: mp3, m4a, flac, wav (overrides config)")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file (default: user config dir)")
		parallelFlag = flag.Int("parallel", 0, "Maximum parallel downloads, 1-10 (overrides config)")
		inputFlag    = flag.String("input", "", "Read requests from a file, one per line (- for stdin)")
		playlistFlag = flag.String("playlist", "", "Write a playlist of the downloaded files to this path")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		logLevelFlag = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	)

	flag.Parse()

	if *inputFlag == "" && flag.NArg() == 0 {
		fmt.Println("SpotiPlay - Download music from Spotify and YouTube")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  spotiplay-dl [options] <URL or search> ...")
		fmt.Println("  spotiplay-dl [options] -input requests.txt")
		fmt.Println()
		fmt.Println("For interactive mode, use: spotiplay-tui")
		fmt.Println()
		flag.PrintDefaults()
		return 2
	}

	level := *logLevelFlag
	if *verboseFlag && level == "warn" {
		level = "info"
	}
	closer, err := logutils.Init(logutils.Options{Level: level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	settings, err := loadSettings(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	// Apply flags
	if *qualityFlag != "" {
		q, err := model.ParseQuality(*qualityFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		settings.DefaultQuality = q
	}
	if *formatFlag != "" {
		f, err := model.ParseFormat(*formatFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		settings.DefaultFormat = f
	}
	if *outputFlag != "" {
		abs, err := filepath.Abs(*outputFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		settings.OutputDir = abs
	}
	if *parallelFlag != 0 {
		settings.MaxParallelDownloads = *parallelFlag
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if err := ioutils.CheckWritableDir(settings.OutputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	mode, err := classify.ParseMode(*modeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	text, err := readRequests(*inputFlag, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return 1
	}

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("🎵 SpotiPlay")
	fmt.Println(strings.Repeat("━", 40))
	fmt.Println()

	manager := download.NewManager(settings, newProgressView(os.Stderr, *verboseFlag))

	items, err := manager.AddRequest(text, mode)
	var verr *classify.ValidationError
	if errors.As(err, &verr) {
		for _, r := range verr.Rejected {
			fmt.Fprintf(os.Stderr, "⚠️  Skipped %q: %s\n", r.Line, r.Reason)
		}
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		manager.Close()
		return 1
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to download.")
		manager.Close()
		return 1
	}

	fmt.Printf("📥 Downloading %d item(s) to %s\n\n", len(items), settings.OutputDir)

	if err := manager.Wait(ctx); err != nil {
		fmt.Println("\nInterrupted, cancelling...")
		manager.Close()
		fmt.Println("Download cancelled.")
		return 130
	}

	if *playlistFlag != "" {
		n, err := manager.WritePlaylist(*playlistFlag)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error writing playlist: %v\n", err)
		case n > 0:
			fmt.Printf("📝 Playlist with %d entries written to %s\n", n, *playlistFlag)
		}
	}

	stats := manager.Stats()
	manager.Close()

	fmt.Println()
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("✨ Complete! %d downloaded, %d failed, %d cancelled\n", stats.Completed, stats.Failed, stats.Cancelled)

	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// loadSettings reads the config file. A corrupt file falls back to
// defaults with a warning.
func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if errors.Is(err, config.ErrCorrupt) {
		logrus.WithError(err).WithField("path", path).Warn("Using default settings")
		return settings, nil
	}
	return settings, err
}

// readRequests joins positional arguments and the -input file into one
// newline-separated request text.
func readRequests(input string, args []string) (string, error) {
	lines := append([]string(nil), args...)

	if input != "" {
		var r io.Reader
		if input == "-" {
			r = os.Stdin
		} else {
			f, err := os.Open(input)
			if err != nil {
				return "", err
			}
			defer f.Close()
			r = f
		}

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return "", err
		}
	}

	return strings.Join(lines, "\n"), nil
}
