package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/typingthrower/overlay/internal/background"
	"github.com/typingthrower/overlay/internal/config"
	"github.com/typingthrower/overlay/internal/countdown"
	"github.com/typingthrower/overlay/internal/font"
	"github.com/typingthrower/overlay/internal/resource"
	"github.com/typingthrower/overlay/internal/tui"
	"github.com/typingthrower/overlay/internal/validate"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	verbose        bool
	propertiesName string
	resourceDirs   []string
	logFile        string
	logHandle      *os.File

	startFrom      int
	fontName       string
	backgroundName string
	numberSize     float64
	period         time.Duration
	exitOnDone     bool

	showFormat string
	saveSets   []string

	rootCmd = &cobra.Command{
		Use:   "overlay",
		Short: "Countdown overlay and settings tool for typingthrower.",
		Long: `Shows the "3, 2, 1, TYPE" countdown that opens a typingthrower round, drawn over the game backdrop in the terminal.
It also inspects and saves the game's properties settings and lists the bundled resources.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logHandle != nil {
				_ = logHandle.Close()
			}
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for config output.
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().
		StringVar(&propertiesName, "properties", "", "Properties resource to read (defaults to $properties, then "+config.DefaultName+")")
	rootCmd.PersistentFlags().
		StringSliceVar(&resourceDirs, "resource-dir", nil, "Directory holding a res/ folder, searched before the working directory and the built-in resources")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append logs to this file; keeps logging on while the overlay is shown")

	countdownCmd.Flags().IntVar(&startFrom, "start", 3, "Number to count down from") //nolint:mnd // Default round start.
	countdownCmd.Flags().StringVar(&fontName, "font", resource.DefaultFont, "Font resource for the label")
	countdownCmd.Flags().StringVar(&backgroundName, "background", background.DefaultName, "Background resource (.png, .jpg, .gif or .txt)")
	countdownCmd.Flags().Float64Var(&numberSize, "size", countdown.DefaultNumberSize, "Font size of the numbers in points")
	countdownCmd.Flags().DurationVar(&period, "period", countdown.DefaultPeriod, "Time each label stays on screen")
	countdownCmd.Flags().BoolVar(&exitOnDone, "exit", false, "Quit once the countdown finishes")

	configShowCmd.Flags().StringVar(&showFormat, "format", "properties", "Output format: properties, json or yaml")
	configSaveCmd.Flags().StringArrayVar(&saveSets, "set", nil, "Override a value before saving (key=value, repeatable)")

	rootCmd.AddCommand(countdownCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resourcesCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configCheckCmd)

	resourcesCmd.AddCommand(resourcesListCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func setupLogging() error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if logFile == "" {
		return nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logHandle = f
	logrus.SetOutput(f)
	return nil
}

func loader() resource.Chain {
	return resource.Default(resourceDirs...)
}

// settingsLoader also accepts plain file paths, so --properties can name a
// file anywhere on disk.
func settingsLoader() resource.Loader { //nolint:ireturn
	return resource.Chain{loader(), resource.Files{}}
}

// openStore returns the settings store, warning when the resource can't be
// read. The store is empty in that case.
func openStore() *config.Store {
	s := config.New(settingsLoader(), config.ResolveName(propertiesName))
	if err := s.Load(); err != nil {
		logrus.Warnf("continuing without settings from %s: %v", s.Name(), err)
	}
	return s
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Show the round-start countdown over the game backdrop",
	Long:  "Opens a full-screen overlay and counts down from --start, one label per --period, ending on TYPE.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		l := loader()

		// Fail before taking over the terminal if the label can't be drawn.
		fonts := font.NewProvider(l)
		if _, err := fonts.Font(fontName); err != nil {
			logrus.Fatalf("Unable to load countdown font: %v", err)
		}

		bg, err := background.Load(l, backgroundName)
		if err != nil {
			logrus.Warnf("continuing without a background: %v", err)
		}

		if endpoint := openStore().Settings().ServerEndpoint(); endpoint != "" {
			logrus.Debugf("game server at %s", endpoint)
		}

		err = tui.Run(cmd.Context(), tui.Options{
			Fonts: fonts,
			Countdown: countdown.Options{
				FontName:   fontName,
				NumberSize: numberSize,
				Period:     period,
			},
			Background: bg,
			Start:      startFrom,
			ExitOnDone: exitOnDone,
			KeepLogs:   logFile != "",
		})
		if err != nil {
			logrus.Fatalf("Overlay failed: %v", err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and save the game's properties settings",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		switch strings.ToLower(showFormat) {
		case "properties":
			if _, err := s.WriteTo(os.Stdout); err != nil {
				logrus.Fatal(err)
			}
		case "json":
			output, err := json.MarshalIndent(s.All(), "", "  ")
			if err != nil {
				logrus.Fatal(err)
			}
			fmt.Fprintln(os.Stdout, string(output))
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2) //nolint:mnd // Two-space YAML indent.
			if err := enc.Encode(s.All()); err != nil {
				logrus.Fatal(err)
			}
			_ = enc.Close()
		default:
			logrus.Fatalf("Unknown format %q: expected properties, json or yaml", showFormat)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configGetCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Print one setting (empty if unset)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stdout, openStore().Get(args[0]))
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configSaveCmd = &cobra.Command{
	Use:   "save [FILE]",
	Short: "Write every setting, with --set overrides applied, to a properties file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		for _, kv := range saveSets {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || strings.TrimSpace(k) == "" {
				logrus.Fatalf("Invalid --set %q: expected key=value", kv)
			}
			s.Set(strings.TrimSpace(k), v)
		}
		if err := s.SaveAll(args[0]); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "Saved %d settings to %s\n", len(s.Keys()), args[0])
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the recognised settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := config.New(settingsLoader(), config.ResolveName(propertiesName))
		if err := s.Load(); err != nil {
			logrus.Fatalf("Unable to load settings: %v", err)
		}
		if err := s.Settings().Validate(); err != nil {
			problems := validate.Problems(err)
			for _, p := range problems {
				fmt.Fprintf(os.Stdout, "invalid: %s\n", p)
			}
			logrus.Fatalf("%s has %d invalid settings", s.Name(), len(problems))
		}
		fmt.Fprintf(os.Stdout, "%s: ok\n", s.Name())
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Inspect the resources the overlay can load",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources under res/ and where each one is loaded from",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := loader().Entries(cmd.Context())
		if err != nil {
			logrus.Fatal(err)
		}
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, "%-32s %s\n", e.Name, e.Source)
		}
	},
}

func main() {
	Execute()
}
