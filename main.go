package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // at least one file failed
	exitConfig  = 2 // nothing was touched
)

var (
	// Regex mode
	pattern     string
	replacement string

	// Shared by every mode
	verbose         bool
	dryRun          bool
	force           bool
	autoNumber      bool
	includePatterns string
	excludePatterns string
	skipHidden      bool
	useGitIgnore    bool
	maxDepth        int
	gitStage        bool
	reportFile      string
	copyToClipboard bool
	interactiveMode bool

	cfgFile string

	exitCode = exitOK
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "renamer",
	Short: "Batch-rename files with regex substitution or case conversion.",
	Long: `renamer walks the given files and directories and renames every file
according to the selected mode. Use --dry-run to preview, --force to overwrite
existing destinations, or --auto-number to pick "name(1).ext" style names
when a destination is taken.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var regexCmd = &cobra.Command{
	Use:   "regex --pattern P --replacement R PATHS...",
	Short: "Replace every match of a regular expression in filenames",
	Long: `Replace every non-overlapping match of --pattern in each filename with
--replacement. The replacement may reference capture groups as $1, ${1} or ${name}.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := PatternMode(pattern, replacement)
		if err != nil {
			return err
		}
		return runRename(cmd, mode, args)
	},
}

func caseCommand(use, short string, kind ModeKind) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PATHS...",
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, CaseMode(kind), args)
		},
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/renamer/config.toml)")

	// Behaviour
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Report unchanged files and every rename")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be renamed without touching the filesystem")
	viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	rootCmd.PersistentFlags().BoolVarP(&force, "force", "f", false, "Overwrite existing destination files")
	viper.BindPFlag("force", rootCmd.PersistentFlags().Lookup("force"))
	rootCmd.PersistentFlags().BoolVarP(&autoNumber, "auto-number", "a", false, `Append "(n)" before the extension when the destination exists`)
	viper.BindPFlag("auto_number", rootCmd.PersistentFlags().Lookup("auto-number"))
	rootCmd.MarkFlagsMutuallyExclusive("force", "auto-number")

	// Filtering
	rootCmd.PersistentFlags().StringVarP(&includePatterns, "include", "i", "", "Only rename files matching these patterns (comma-separated, e.g. *.jpg,*.png)")
	viper.BindPFlag("include", rootCmd.PersistentFlags().Lookup("include"))
	rootCmd.PersistentFlags().StringVarP(&excludePatterns, "exclude", "e", "", "Skip files and directories matching these patterns (comma-separated)")
	viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	rootCmd.PersistentFlags().BoolVarP(&skipHidden, "skip-hidden", "H", false, "Skip hidden files and directories")
	viper.BindPFlag("skip_hidden", rootCmd.PersistentFlags().Lookup("skip-hidden"))
	rootCmd.PersistentFlags().BoolVar(&useGitIgnore, "gitignore", false, "Respect the .gitignore at the top of each directory")
	viper.BindPFlag("gitignore", rootCmd.PersistentFlags().Lookup("gitignore"))
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "Maximum directory depth to descend (0 for no limit)")
	viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))

	// Git
	rootCmd.PersistentFlags().BoolVar(&gitStage, "git", false, "Stage renames of tracked files in the enclosing git repository")
	viper.BindPFlag("git", rootCmd.PersistentFlags().Lookup("git"))

	// Output
	rootCmd.PersistentFlags().StringVar(&reportFile, "report", "", "Write a YAML report of the run to this file")
	viper.BindPFlag("report", rootCmd.PersistentFlags().Lookup("report"))
	rootCmd.PersistentFlags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the rename log to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.PersistentFlags().Lookup("clipboard"))

	// Interactive Mode
	rootCmd.PersistentFlags().BoolVar(&interactiveMode, "interactive", false, "Pick paths with an interactive finder")
	viper.BindPFlag("interactive", rootCmd.PersistentFlags().Lookup("interactive"))

	regexCmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Regular expression to search for in filenames")
	regexCmd.Flags().StringVarP(&replacement, "replacement", "r", "", "Replacement template")
	regexCmd.MarkFlagRequired("pattern")
	regexCmd.MarkFlagRequired("replacement")

	rootCmd.AddCommand(
		regexCmd,
		caseCommand("lowercase", "Convert filenames to lowercase", ModeLowercase),
		caseCommand("uppercase", "Convert filenames to uppercase", ModeUppercase),
		caseCommand("capitalize", "Upper-case the first character and lower-case the rest", ModeCapitalize),
	)

	setDefaults(viper.GetViper())
}

// setDefaults registers the defaults every key falls back to.
func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("force", false)
	v.SetDefault("auto_number", false)
	v.SetDefault("include", "")
	v.SetDefault("exclude", "")
	v.SetDefault("skip_hidden", false)
	v.SetDefault("gitignore", false)
	v.SetDefault("max_depth", 0)
	v.SetDefault("git", false)
	v.SetDefault("report", "")
	v.SetDefault("clipboard", false)
	v.SetDefault("interactive", false)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "renamer"))
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("RENAMER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match RENAMER_*

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}
}

// runRename builds the run configuration for mode and processes every path.
// Configuration problems are returned; per-file failures only set exitCode.
func runRename(cmd *cobra.Command, mode RenameMode, args []string) error {
	paths := args
	if viper.GetBool("interactive") {
		selected, err := runInteractiveFinder(".", viper.GetBool("skip_hidden"), mode)
		if err != nil {
			return err
		}
		if selected == nil {
			// User aborted interactive selection
			return nil
		}
		paths = append(paths, selected...)
	}

	cfg, err := buildConfig(viper.GetViper(), mode, paths)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	rep := NewReporter(out, errOut, cfg.Verbose)

	var mover Mover = fsMover{fs: fsys}
	if cfg.Git {
		mover = newGitMover(mover, rep.Warn)
	}

	if cfg.DryRun {
		fmt.Fprintln(out, "*** DRY RUN MODE ENABLED ***")
	}

	runErr := Run(fsys, mover, cfg, rep)
	rep.PrintSummary(cfg.DryRun)

	if cfg.ReportFile != "" {
		if err := rep.WriteReport(fsys, cfg.ReportFile, cfg); err != nil {
			rep.Warn("%v", err)
		} else {
			fmt.Fprintf(out, "Report saved to %s\n", cfg.ReportFile)
		}
	}
	if cfg.Clipboard {
		if err := rep.CopyToClipboard(); err != nil {
			rep.Warn("%v", err)
		} else {
			fmt.Fprintln(out, "Rename log copied to clipboard.")
		}
	}

	if runErr != nil {
		for _, e := range multierr.Errors(runErr) {
			fmt.Fprintf(errOut, "Error: %v\n", e)
		}
		exitCode = exitFailure
	}
	return nil
}

// execute runs the command line and returns the process exit code.
func execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return exitConfig
	}
	return exitCode
}

func main() {
	os.Exit(execute())
}
