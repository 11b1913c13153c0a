package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/zjrosen/glimpse/internal/app"
	"github.com/zjrosen/glimpse/internal/config"
	"github.com/zjrosen/glimpse/internal/log"
	"github.com/zjrosen/glimpse/internal/mode"
	"github.com/zjrosen/glimpse/internal/scheme"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config

	flagLight       bool
	flagDark        bool
	flagStyle       string
	flagNoPager     bool
	flagLineNumbers bool
	flagDepth       int
	flagNoWatch     bool
	flagDebug       bool
	flagWidth       int
)

var rootCmd = &cobra.Command{
	Use:   "glimpse [file]",
	Short: "A terminal markdown viewer",
	Long: `Glimpse renders markdown in the terminal. Given a file it opens a pager;
given a directory (or nothing) it opens a browser over the markdown files
beneath it. It follows the terminal's light or dark background and re-renders
live when the terminal theme changes.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/glimpse/config.yaml)")
	rootCmd.Flags().BoolVar(&flagLight, "light", false, "force the light color scheme")
	rootCmd.Flags().BoolVar(&flagDark, "dark", false, "force the dark color scheme")
	rootCmd.Flags().StringVarP(&flagStyle, "style", "s", "", "theme name (default, dracula, nord)")
	rootCmd.Flags().BoolVarP(&flagNoPager, "no-pager", "p", false, "print rendered markdown and exit")
	rootCmd.Flags().BoolVarP(&flagLineNumbers, "line-numbers", "l", false, "show line numbers in the pager")
	rootCmd.Flags().IntVar(&flagDepth, "depth", 0, "directory scan depth")
	rootCmd.Flags().BoolVar(&flagNoWatch, "no-watch", false, "disable live reload on file changes")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "write a debug log to glimpse-debug.log")
	rootCmd.Flags().IntVarP(&flagWidth, "width", "w", 0, "word-wrap width (default: terminal width)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("watch", defaults.Watch)
	viper.SetDefault("watch_debounce", defaults.WatchDebounce)
	viper.SetDefault("ui.show_line_numbers", defaults.UI.ShowLineNumbers)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.mouse", defaults.UI.Mouse)
	viper.SetDefault("theme.name", defaults.Theme.Name)
	viper.SetDefault("theme.mode", defaults.Theme.Mode)
	viper.SetDefault("browser.depth", defaults.Browser.Depth)
	viper.SetDefault("browser.sort_key", defaults.Browser.SortKey)
	viper.SetDefault("browser.sort_dir", defaults.Browser.SortDir)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .glimpse/config.yaml (current directory)
		// 2. ~/.config/glimpse/config.yaml (user config)
		if _, err := os.Stat(".glimpse/config.yaml"); err == nil {
			viper.SetConfigFile(".glimpse/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "glimpse"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at
		// ~/.config/glimpse/config.yaml so sort preferences have a home.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, homeErr := os.UserHomeDir()
			if homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "glimpse", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if flagDebug || os.Getenv("GLIMPSE_DEBUG") != "" {
		cleanup, err := log.Init("glimpse-debug.log", "glimpse")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	}

	applyFlagOverrides()

	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	// Piped input becomes a single document when no file is named.
	stdin := ""
	if target == "" && !term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		if len(strings.TrimSpace(string(data))) > 0 {
			stdin = string(data)
		}
	}

	filePath, workDir, err := resolveTarget(target)
	if err != nil {
		return err
	}

	if stdin == "" && filePath == "" && !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("no input: provide a file, pipe markdown on stdin, or run in a terminal")
	}

	// Detect before the program starts so the terminal's OSC 11 response
	// cannot race Bubble Tea's input loop and land in a text field.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	detected := detectScheme()

	// Piped output gets a one-shot render, same as --no-pager.
	if flagNoPager || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printRendered(filePath, stdin, detected)
	}

	configFilePath := viper.ConfigFileUsed()

	model, err := app.New(app.Options{
		Services: mode.Services{
			Config:     &cfg,
			ConfigPath: configFilePath,
			WorkDir:    workDir,
		},
		FilePath: filePath,
		Stdin:    stdin,
		Scheme:   detected,
	})
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	// Ask the terminal to report future theme flips, and stop asking on
	// the way out so the setting does not leak into the parent shell.
	fmt.Fprint(os.Stdout, scheme.EnableReports)
	defer fmt.Fprint(os.Stdout, scheme.DisableReports)

	final, err := p.Run()
	if closer, ok := final.(app.Model); ok {
		if closeErr := closer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// applyFlagOverrides folds command-line flags into the loaded config.
// Flags always win over the config file.
func applyFlagOverrides() {
	if flagStyle != "" {
		cfg.Theme.Name = flagStyle
	}
	if flagLight {
		cfg.Theme.Mode = "light"
	}
	if flagDark {
		cfg.Theme.Mode = "dark"
	}
	if flagLineNumbers {
		cfg.UI.ShowLineNumbers = true
	}
	if flagDepth > 0 {
		cfg.Browser.Depth = flagDepth
	}
	if flagNoWatch {
		cfg.Watch = false
	}
}

// resolveTarget splits the positional argument into a file to page or a
// directory to browse.
func resolveTarget(target string) (filePath, workDir string, err error) {
	if target == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getting current directory: %w", err)
		}
		return "", wd, nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", "", fmt.Errorf("opening %s: %w", target, err)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", "", err
	}
	if info.IsDir() {
		return "", abs, nil
	}
	return abs, filepath.Dir(abs), nil
}

// detectScheme applies the forced mode if any, otherwise queries the
// terminal with an environment fallback.
func detectScheme() scheme.Scheme {
	switch cfg.Theme.Mode {
	case "light":
		return scheme.Light
	case "dark":
		return scheme.Dark
	}
	return scheme.Detect(os.Stdin, os.Stdout, scheme.DefaultTimeout)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
