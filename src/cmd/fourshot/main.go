package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fourshot/src/config"
	"fourshot/src/logutil"
	"fourshot/src/notification"
	"fourshot/src/overlay"
	"fourshot/src/screenshot"
	"fourshot/src/selection"
	"fourshot/src/session"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type cliOptions struct {
	full      bool
	rect      bool
	stdout    bool
	file      string
	clipboard bool
	notify    bool
	verbose   bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(os.Args)
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"fourshot"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts, runWithOptions)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions, runFn func(context.Context, cliOptions, bool) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fourshot [--full | --rect] [--stdout] [--file PATH] [--clipboard]",
		Short:         "Capture the screen or a selected region as PNG",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(c *cobra.Command, args []string) error {
			if len(args) > 0 {
				c.PrintErrln(c.UsageString())
				return fmt.Errorf("%w: unexpected argument %q", config.ErrInvalidArguments, args[0])
			}
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runFn(ctx, *opts, c.Flags().Changed("file"))
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(c.UsageString())
		return fmt.Errorf("%w: %v", config.ErrInvalidArguments, err)
	})

	cmd.Flags().BoolVar(&opts.full, "full", false, "Capture the whole screen (default)")
	cmd.Flags().BoolVar(&opts.rect, "rect", false, "Select an area and capture it")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Write the PNG to stdout (default)")
	cmd.Flags().StringVar(&opts.file, "file", "", "Write the PNG to `PATH`")
	cmd.Flags().BoolVar(&opts.clipboard, "clipboard", false, "Copy the PNG to the clipboard")
	cmd.Flags().BoolVar(&opts.notify, "notify", false, "Show a desktop notification when done")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")

	return cmd
}

func runWithOptions(ctx context.Context, opts cliOptions, fileSet bool) error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Configure logging BEFORE any other operations.
	logger, err := logutil.Setup(logutil.Options{
		Verbose:     opts.verbose,
		FileLogging: settings.EnableFileLogging,
		FilePath:    settings.LogFile,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rc, err := config.NewRunConfig(config.Flags{
		Full:      opts.full,
		Rect:      opts.rect,
		Stdout:    opts.stdout,
		File:      opts.file,
		FileSet:   fileSet,
		Clipboard: opts.clipboard,
		Notify:    opts.notify,
	})
	if err != nil {
		return err
	}
	if opts.full && opts.rect {
		logger.Warn("both --full and --rect given, using fullscreen")
	}
	dests := make([]string, 0, len(rc.Destinations))
	for _, d := range rc.Destinations {
		dests = append(dests, d.String())
	}
	logger.Debug("run config",
		zap.Stringer("mode", rc.Mode),
		zap.Strings("destinations", dests),
		zap.String("backend", settings.Backend),
		zap.String("env", settings.EnvPath))

	compression, err := screenshot.ParseCompression(settings.Compression)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidArguments, err)
	}

	capturer, err := screenshot.NewCapturer(settings.Backend, settings.Display)
	if err != nil {
		return err
	}

	targets, err := session.OpenTargets(rc, logger)
	if err != nil {
		return err
	}

	selector := &overlay.WindowSelector{
		Bindings: selection.Bindings{
			Select: selection.Button(settings.SelectButton),
			Save:   selection.Button(settings.SaveButton),
		},
		Darkness:    settings.Darkness,
		NoDarken:    !settings.Darken,
		Outline:     settings.OutlineColor,
		LabelOrigin: settings.LabelOrigin,
		Logger:      logger,
	}

	var notify session.NotifyFunc
	if rc.Notify {
		notify = notification.Show
	}

	res, err := session.Execute(ctx, session.Options{
		Mode:    rc.Mode,
		Capture: capturer.Capture,
		Select:  selector.Select,
		Encode:  screenshot.Encoder{Compression: compression}.Encode,
		Targets: targets,
		Notify:  notify,
		Logger:  logger,
	})
	if errors.Is(err, session.ErrSelectionCancelled) {
		logger.Info("selection cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("screenshot delivered",
		zap.Int("width", res.Region.Width),
		zap.Int("height", res.Region.Height),
		zap.Int("bytes", res.Bytes))
	return nil
}
