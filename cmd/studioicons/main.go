package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/jsvensson/studioicons"
	"github.com/jsvensson/studioicons/internal/format"
	"github.com/jsvensson/studioicons/internal/lint"
	"github.com/jsvensson/studioicons/internal/theme"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var version = "dev" // Injected at build time via ldflags

var (
	errLintFailed   = errors.New("lint found errors")
	errNotFormatted = errors.New("files are not formatted")
	errFmtFailed    = errors.New("some files could not be formatted")
)

// config holds the tool's defaults. Environment variables set them, flags
// override them.
type config struct {
	Settings  string `env:"STUDIOICONS_SETTINGS"  envDefault:"src/icon-settings.json"`
	Source    string `env:"STUDIOICONS_SOURCE"    envDefault:"src/svg"`
	Out       string `env:"STUDIOICONS_OUT"       envDefault:"fileicons"`
	Manifest  string `env:"STUDIOICONS_MANIFEST"  envDefault:"studio-icons.json"`
	Workers   int    `env:"STUDIOICONS_WORKERS"`
	Verbosity int    `env:"STUDIOICONS_VERBOSITY" envDefault:"0"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

func newRootCmd(cfg config) *cobra.Command {
	root := &cobra.Command{
		Use:           "studioicons",
		Short:         "Generate light, dark and high-contrast file icon themes from one set of SVG sources",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(cfg.Verbosity, nil)
		},
	}
	root.PersistentFlags().IntVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log verbosity (0 errors only, higher is noisier)")
	root.PersistentFlags().StringVar(&cfg.Settings, "settings", cfg.Settings, "path to the icon settings file (.json, .hcl or .toml)")
	root.PersistentFlags().StringVar(&cfg.Source, "source", cfg.Source, "directory holding the source SVG images")

	var noClean bool
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Remove the output directory and generate the icon set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, cfg, noClean)
		},
	}
	buildCmd.Flags().StringVar(&cfg.Out, "out", cfg.Out, "output directory")
	buildCmd.Flags().StringVar(&cfg.Manifest, "manifest", cfg.Manifest, "manifest file name inside the output directory")
	buildCmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "icons processed concurrently")
	buildCmd.Flags().BoolVar(&noClean, "no-clean", false, "do not remove the output directory first")

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &studioicons.Builder{OutputDir: cfg.Out}
			return b.Clean()
		},
	}
	cleanCmd.Flags().StringVar(&cfg.Out, "out", cfg.Out, "output directory")

	lintCmd := &cobra.Command{
		Use:   "lint",
		Short: "Check the settings and source images for problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, cfg)
		},
	}

	var check bool
	fmtCmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Format settings files",
		Long:  "Format .hcl and .json settings files in-place. Prints the name of each file that was modified. Without arguments the configured settings file is formatted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{cfg.Settings}
			}
			return runFmt(cmd, args, check)
		},
	}
	fmtCmd.Flags().BoolVarP(&check, "check", "c", false, "check if files are formatted (do not write changes)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	root.AddCommand(buildCmd, cleanCmd, lintCmd, fmtCmd, versionCmd)
	return root
}

func runBuild(cmd *cobra.Command, cfg config, noClean bool) error {
	settings, err := studioicons.Load(cfg.Settings)
	if err != nil {
		return err
	}

	b := &studioicons.Builder{
		Settings:     settings,
		SourceDir:    cfg.Source,
		OutputDir:    cfg.Out,
		ManifestName: cfg.Manifest,
		Workers:      cfg.Workers,
	}

	if noClean {
		err = b.Build(cmd.Context())
	} else {
		err = b.Run(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("building: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d icons in %s\n", settings.Len()*len(theme.Kinds()), cfg.Out)
	return nil
}

func runLint(cmd *cobra.Command, cfg config) error {
	settings, err := studioicons.Load(cfg.Settings)
	if err != nil {
		return err
	}

	in := lint.Input{
		Palette: settings.Palette(),
		Styles:  make(map[theme.Kind]theme.Style),
		Icons:   settings.Icons(),
	}
	for _, k := range theme.Kinds() {
		in.Styles[k] = settings.Style(k)
	}

	findings, err := lint.Check(os.DirFS(cfg.Source), in)
	for _, f := range findings {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	if err != nil {
		return err
	}
	if lint.HasErrors(findings) {
		return errLintFailed
	}
	return nil
}

func runFmt(cmd *cobra.Command, paths []string, check bool) error {
	hasErrors := false
	needsFormatting := false

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		content := string(data)
		formatted, err := format.Format(path, content)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		if formatted == content {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		needsFormatting = true

		if !check {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", path, err)
				hasErrors = true
			}
		}
	}

	switch {
	case hasErrors:
		return errFmtFailed
	case check && needsFormatting:
		return errNotFormatted
	}
	return nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
