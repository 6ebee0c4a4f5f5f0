package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/stories/internal/config"
	"github.com/llehouerou/stories/internal/errmsg"
	"github.com/llehouerou/stories/internal/logging"
	"github.com/llehouerou/stories/internal/ui/termimg"
)

// options are the command line overrides of the configuration.
type options struct {
	configFile    string
	catalog       string
	advance       time.Duration
	logLevel      string
	logFile       string
	imageProtocol string
	noCache       bool
}

// runApp is replaced in tests.
var runApp = run

func newRootCommand() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "stories [catalog]",
		Short: "Watch image stories in the terminal",
		Long: "stories loads a JSON catalog of users and their image stories from a URL\n" +
			"or a file and plays them full screen, advancing automatically.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.catalog = args[0]
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", errmsg.Title(errmsg.OpConfigLoad), err)
			}
			return runApp(cmd.Context(), cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Configuration file path")
	flags.StringVar(&opts.catalog, "catalog", "", "Catalog URL or path (default \"stories.json\")")
	flags.DurationVar(&opts.advance, "advance", 0, "How long each story stays on screen (default 5s)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFile, "log-file", "", "Log file path")
	flags.StringVar(&opts.imageProtocol, "image-protocol", "", "Image protocol: auto, kitty, sixel or none")
	flags.BoolVar(&opts.noCache, "no-cache", false, "Do not cache resized images on disk")

	return rootCmd
}

// loadConfig reads the configuration files, then applies the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if opts.catalog != "" {
		cfg.Catalog = opts.catalog
	}
	if flags.Changed("advance") {
		if opts.advance < time.Millisecond {
			return nil, fmt.Errorf("--advance: must be at least 1ms, got %s", opts.advance)
		}
		cfg.SetAdvanceDelay(opts.advance)
	}
	if flags.Changed("log-level") {
		if _, err := logging.ParseLevel(opts.logLevel); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if flags.Changed("image-protocol") {
		if _, err := termimg.ParseMode(opts.imageProtocol); err != nil {
			return nil, fmt.Errorf("--image-protocol: %w", err)
		}
		cfg.ImageProtocol = opts.imageProtocol
	}
	if opts.noCache {
		cfg.Cache.Disabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
