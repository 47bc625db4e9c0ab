package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
)

const version = "0.1.0"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Sources left nil are built from the configuration on first use.
type Runner struct {
	config     *shared.Config
	metadata   services.MetadataSource
	content    services.ContentSource
	links      services.LinkSource
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Metadata   services.MetadataSource
	Content    services.ContentSource
	Links      services.LinkSource
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		metadata:   opts.Metadata,
		content:    opts.Content,
		links:      opts.Links,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lyrx",
		Usage:   "Resolve song searches into lyrics, metadata and video links",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log warnings and errors",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		resolveCommand, searchCommand, lyricsCommand, videoCommand, runsCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration file (when present) and environment overrides.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	switch {
	case cmd.Bool("verbose"):
		shared.SetLogLevel(r.logger, log.DebugLevel)
	case cmd.Bool("quiet"):
		shared.SetLogLevel(r.logger, log.WarnLevel)
	}

	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.logger.Debug("loaded config", "path", configPath)
	}

	r.config.ApplyEnv()
	return ctx, nil
}

// SetLogger replaces the logger used by the runner and any sources it builds afterwards.
//
// l takes over the level of the current logger, so --verbose and --quiet still apply.
func (r *Runner) SetLogger(l *log.Logger) {
	if r.logger != nil {
		l.SetLevel(r.logger.GetLevel())
	}
	r.logger = l
}

func (r *Runner) clientOptions(timeout shared.Duration) services.ClientOptions {
	return services.ClientOptions{
		Timeout:           timeout.Duration,
		MaxRetries:        r.config.HTTP.MaxRetries,
		Backoff:           r.config.HTTP.RetryBackoff.Duration,
		RequestsPerSecond: r.config.HTTP.RequestsPerSecond,
		UserAgent:         r.config.HTTP.UserAgent,
		Logger:            r.logger,
	}
}

// genius builds the Genius client from the configuration.
func (r *Runner) genius() (*services.GeniusService, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	return services.NewGeniusService(services.GeniusOptions{
		AccessToken: r.config.Credentials.Genius.AccessToken,
		BaseURL:     r.config.Credentials.Genius.BaseURL,
		PerPage:     r.config.Search.ResultsPerPage,
		API:         r.clientOptions(r.config.HTTP.APITimeout),
		Scrape:      r.clientOptions(r.config.HTTP.ScrapeTimeout),
		HTTPClient:  r.httpClient,
		Logger:      r.logger,
	})
}

// sources returns the metadata and content sources, building Genius when none were injected.
func (r *Runner) sources() (services.MetadataSource, services.ContentSource, error) {
	if r.metadata != nil {
		return r.metadata, r.content, nil
	}

	genius, err := r.genius()
	if err != nil {
		return nil, nil, err
	}
	r.metadata = genius
	if r.content == nil {
		r.content = genius
	}
	return r.metadata, r.content, nil
}

// linkSource returns the video link source, or nil when lookups are disabled.
func (r *Runner) linkSource(enabled bool) services.LinkSource {
	if !enabled || !r.config.Credentials.YouTube.Enabled {
		return nil
	}
	if r.links == nil {
		r.links = services.NewYouTubeService(services.YouTubeOptions{
			APIKey:     r.config.Credentials.YouTube.APIKey,
			Client:     r.clientOptions(r.config.HTTP.ScrapeTimeout),
			HTTPClient: r.httpClient,
			Logger:     r.logger,
		})
	}
	return r.links
}

func (r *Runner) newPipeline(withVideo bool) (*tasks.Pipeline, error) {
	metadata, content, err := r.sources()
	if err != nil {
		return nil, err
	}

	return tasks.NewPipeline(tasks.PipelineOpts{
		Metadata: metadata,
		Content:  content,
		Links:    r.linkSource(withVideo),
		PerPage:  r.config.Search.ResultsPerPage,
		Logger:   r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
