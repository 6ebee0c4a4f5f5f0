package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/stories/internal/app"
	"github.com/llehouerou/stories/internal/catalog"
	"github.com/llehouerou/stories/internal/config"
	"github.com/llehouerou/stories/internal/errmsg"
	"github.com/llehouerou/stories/internal/logging"
	"github.com/llehouerou/stories/internal/media"
	"github.com/llehouerou/stories/internal/playback"
	"github.com/llehouerou/stories/internal/stderr"
	"github.com/llehouerou/stories/internal/ui/termimg"
)

// run starts the terminal UI and blocks until the user quits.
func run(ctx context.Context, cfg *config.Config) error {
	logger, closer, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.LogFile()})
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.Title(errmsg.OpInitialize), err)
	}
	defer closer.Close()

	// Libraries writing to stderr would corrupt the screen; route their
	// output to the log instead.
	capture, err := stderr.Start(logger)
	if err != nil {
		logger.Warn("stderr capture unavailable", "error", err)
	}
	defer capture.Stop()

	deps, err := newDeps(cfg, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.Title(errmsg.OpInitialize), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := app.New(ctx, deps)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	final, runErr := p.Run()
	if m, ok := final.(app.Model); ok {
		m.Shutdown()
	}
	if runErr != nil {
		logger.Error("program stopped", "error", runErr)
		return runErr
	}
	logger.Info("bye")
	return nil
}

// newDeps builds the collaborators of the application model from cfg.
func newDeps(cfg *config.Config, logger *slog.Logger) (app.Deps, error) {
	mode, err := termimg.ParseMode(cfg.ImageProtocol)
	if err != nil {
		return app.Deps{}, err
	}
	renderer := termimg.NewRenderer(termimg.Detect(mode))
	logger.Info("starting",
		"catalog", cfg.Catalog,
		"advance", cfg.AdvanceDelay().String(),
		"image_protocol", renderer.ProtocolName(),
	)

	client := &http.Client{Timeout: cfg.HTTPTimeout()}

	fetchOpts := []media.Option{
		media.WithHTTPClient(client),
		media.WithSizer(renderer),
		media.WithUserAgent(cfg.UserAgent()),
	}
	if dir := cfg.CacheDir(); dir != "" {
		cache, err := media.NewCache(dir)
		if err != nil {
			logger.Warn("media cache disabled", "dir", dir, "error", err)
		} else {
			fetchOpts = append(fetchOpts, media.WithCache(cache))
		}
	}

	loader := catalog.NewLoader(cfg.Catalog,
		catalog.WithHTTPClient(client),
		catalog.WithUserAgent(cfg.UserAgent()),
	)

	delay := cfg.AdvanceDelay()
	return app.Deps{
		Loader:   loader,
		Fetcher:  media.NewFetcher(fetchOpts...),
		Renderer: renderer,
		NewService: func(c catalog.Catalog) app.Controller {
			return playback.NewService(c,
				playback.WithAdvanceDelay(delay),
				playback.WithLogger(logger.With("component", "playback")),
			)
		},
		Logger: logger,
	}, nil
}
