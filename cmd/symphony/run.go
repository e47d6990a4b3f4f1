package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/symphony/internal/config"
	"github.com/OFFIS-RIT/symphony/internal/export"
	"github.com/OFFIS-RIT/symphony/internal/util"
	"github.com/OFFIS-RIT/symphony/internal/wizard"
	"github.com/OFFIS-RIT/symphony/pkg/client"
	"github.com/OFFIS-RIT/symphony/pkg/loader"
	ioloader "github.com/OFFIS-RIT/symphony/pkg/loader/io"
	webloader "github.com/OFFIS-RIT/symphony/pkg/loader/web"
	"github.com/OFFIS-RIT/symphony/pkg/logger"
	"github.com/OFFIS-RIT/symphony/pkg/logger/file"

	"github.com/spf13/cobra"
)

var (
	runMock     bool
	runURL      string
	runAPIKey   string
	runFixtures string
	runOut      string
	runS3       bool
	runLogFile  string
	runTimeout  time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive brainstorming session",
	Long: `Walk through a brainstorming session step by step.

The session talks to a running symphony server. With --mock no server is
needed: every step is answered from fixture data.

The final synthesis is saved as markdown to --out, or to the S3 bucket
configured through AWS_* variables when --s3 is set.

Examples:
  symphony run --mock
  symphony run --url http://localhost:8080 --out ./sessions
  symphony run --mock --fixtures ./fixtures.json`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runMock, "mock", false, "Use fixture data instead of the server")
	runCmd.Flags().StringVar(&runURL, "url", "", "Server URL (default $SYMPHONY_URL or http://localhost:8080)")
	runCmd.Flags().StringVar(&runAPIKey, "api-key", "", "API key for the server (default $API_KEY)")
	runCmd.Flags().StringVar(&runFixtures, "fixtures", "", "Fixture file for --mock (default embedded fixtures)")
	runCmd.Flags().StringVar(&runOut, "out", ".", "Directory the synthesis is saved to")
	runCmd.Flags().BoolVar(&runS3, "s3", false, "Save the synthesis to S3 instead of --out")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "Timeout for each server request")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "symphony.log", "File log output is written to")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	util.LoadEnv()
	cfg := config.Load()

	fileLogger, err := file.NewFileLogger(file.FileLoggerParams{Path: runLogFile, Debug: cfg.Debug})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer fileLogger.Close()
	logger.Init(fileLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := runURL
	if url == "" {
		url = util.GetEnvString("SYMPHONY_URL", client.DefaultBaseURL)
	}
	apiKey := runAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}

	c, err := client.NewClient(client.ClientParams{
		Mock:         runMock,
		FixturesPath: runFixtures,
		BaseURL:      url,
		APIKey:       apiKey,
		Timeout:      runTimeout,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return err
	}

	loaders := loader.Loaders{
		File: ioloader.NewIOLoader(),
		Web:  webloader.NewWebLoader(nil),
	}

	w, err := wizard.NewWizard(wizard.NewWizardParams{
		Client:       c,
		Prompter:     wizard.NewSurveyPrompter(),
		LoadDocument: loaders.Load,
		Exporter:     exporter,
		SampleIdea:   client.SampleIdea(c),
	})
	if err != nil {
		return err
	}

	logger.Info("Starting session", "mock", runMock, "url", url)
	s, err := w.Run(ctx)
	if err != nil {
		logger.Error("Failed to run session", "err", err, "step", s.Step)
		return err
	}
	logger.Info("Session finished", "step", s.Step, "exported", len(s.Exported))
	return nil
}

func newExporter(ctx context.Context, cfg config.Config) (export.Exporter, error) {
	if !runS3 {
		return export.NewFileExporter(runOut), nil
	}
	if !cfg.S3.Enabled() {
		return nil, fmt.Errorf("--s3 needs AWS_BUCKET to be set")
	}
	return export.NewS3Exporter(ctx, export.NewS3ExporterParams{
		Region:         cfg.S3.Region,
		Endpoint:       cfg.S3.Endpoint,
		PublicEndpoint: cfg.S3.PublicEndpoint,
		AccessKey:      cfg.S3.AccessKey,
		SecretKey:      cfg.S3.SecretKey,
		Bucket:         cfg.S3.Bucket,
		Prefix:         "idea-symphony",
	})
}
