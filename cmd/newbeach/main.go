package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/newbeach/internal/config"
	"github.com/handiism/newbeach/internal/download"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
	bannerStyle  = lipgloss.NewStyle().Bold(true)
)

func main() {
	// Command line flags
	var (
		configFlag    = flag.String("config", "", "Path to config file (.json, .yaml or .yml)")
		outputFlag    = flag.String("output", "", "Output root directory (overrides config)")
		namespaceFlag = flag.String("namespace", "", "Batch directory name: date, datetime, uuid or a literal name")
		limitFlag     = flag.Int("limit", 0, "Number of recent submissions to fetch")
		urlFlag       = flag.String("url", "", "Listing page to scrape")
		noPlayFlag    = flag.Bool("no-play", false, "Do not launch the player")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag    = flag.Bool("dry-run", false, "List the links without downloading")
		installFlag   = flag.Bool("install-ytdlp", false, "Download a managed yt-dlp if none is installed")
		saveFlag      = flag.String("save-config", "", "Write the effective settings to this file (.json, .yaml or .yml)")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "newbeach - Download and play the newest Newgrounds audio")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  newbeach [options]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For interactive mode, use: newbeach-tui")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	config.LoadEnv()
	if err := settings.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	// Apply flags that were set explicitly
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			settings.OutputRoot = *outputFlag
		case "namespace":
			settings.Namespace = *namespaceFlag
		case "limit":
			settings.Limit = *limitFlag
		case "url":
			settings.ListingURL = *urlFlag
		case "no-play":
			settings.Play = !*noPlayFlag
		case "install-ytdlp":
			settings.AutoInstallYtDlp = *installFlag
		}
	})

	if *saveFlag != "" {
		if err := settings.Save(*saveFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(dimStyle.Render("Saved settings to " + *saveFlag))
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		switch event.Level {
		case download.LevelVerbose:
			if *verboseFlag {
				fmt.Println(dimStyle.Render("   " + event.Message))
			}
		case download.LevelError:
			fmt.Println(errorStyle.Render(event.Message))
		case download.LevelWarning:
			fmt.Println(warningStyle.Render(event.Message))
		case download.LevelSuccess:
			fmt.Println(successStyle.Render(event.Message))
		default:
			fmt.Println(event.Message)
		}
	})

	if *dryRunFlag {
		links := manager.Discover(ctx)
		if len(links) == 0 {
			fmt.Println("No songs found.")
			return
		}
		for i, link := range links {
			fmt.Printf("%d. %s\n", i+1, link)
		}
		fmt.Println("\n[Dry run - not downloading]")
		return
	}

	result, err := manager.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if result == nil {
		return
	}

	rule := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(rule)
	fmt.Println(bannerStyle.Render("READY. Saved to: " + result.Dir))
	fmt.Printf("URL List saved to: %s\n", result.TracksPath)
	if result.Failed > 0 {
		fmt.Println(warningStyle.Render(fmt.Sprintf("%d of %d songs failed, see %s", result.Failed, result.Batch.Len(), settings.FailedFileName)))
	}
	fmt.Println(rule)

	if !settings.Play {
		return
	}
	if err := manager.Play(ctx, result); err != nil {
		if ctx.Err() != nil {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
