// Command lfv is the CLI front-end for vector expansion: read a source
// file, expand it (forced or on an LFV_EXPAND_VECTORS() sentinel), and
// write the result to an output file, with optional logging.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mceicys/lfv-go/internal/cliutil"
	"github.com/mceicys/lfv-go/internal/config"
	"github.com/mceicys/lfv-go/internal/reader"
	"github.com/mceicys/lfv-go/pkg/lfv"
)

// Exit code constants, in the spirit of cmd/devcmd/main.go's explicit
// codes rather than a bare os.Exit(1) for every failure.
const (
	ExitSuccess          = 0
	ExitInvalidArguments = 1
	ExitIOError          = 2
	ExitExpansionError   = 3
)

var knownFlags = []string{
	"input", "force", "output", "log", "log-clear", "log-unexpanded",
	"log-header", "config", "host-version",
}

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

// runCLI builds and executes the root command, returning the process exit
// code rather than calling os.Exit itself, so tests can drive it directly.
func runCLI(args []string) int {
	var (
		inputPath   string
		force       bool
		outputPath  string
		logPath     string
		logClear    bool
		logUnexp    bool
		logHeader   bool
		configPath  string
		hostVersion string
	)

	exitCode := ExitSuccess

	root := &cobra.Command{
		Use:   "lfv",
		Short: "Vector expansion preprocessor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) == 1 {
				inputPath = cmdArgs[0]
			}
			if inputPath == "" {
				exitCode = ExitInvalidArguments
				return fmt.Errorf("no input file given (use -i/--input or a positional argument)")
			}

			code, err := run(inputPath, force, outputPath, logPath, logClear, logUnexp, logHeader, configPath, hostVersion)
			exitCode = code
			return err
		},
		SilenceUsage: true,
	}
	// Accept the slash-style aliases /i, /f and /? for -i, -f and -h.
	translated := make([]string, len(args))
	for i, a := range args {
		switch a {
		case "/i":
			a = "-i"
		case "/f":
			a = "-f"
		case "/?":
			a = "-h"
		}
		translated[i] = a
	}
	root.SetArgs(translated)

	root.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "input file (or the first positional argument)")
	root.PersistentFlags().BoolVarP(&force, "force", "f", false, "force expansion even without the LFV_EXPAND_VECTORS() sentinel")
	root.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output file (default: inputFile with _expanded inserted)")
	root.PersistentFlags().StringVar(&logPath, "log", "", "append a plain-text log (and CBOR sidecar) to this path")
	root.PersistentFlags().BoolVar(&logClear, "log-clear", false, "truncate the log file instead of appending")
	root.PersistentFlags().BoolVar(&logUnexp, "log-unexpanded", false, "also log sources that were never expanded")
	root.PersistentFlags().BoolVar(&logHeader, "log-header", true, "write the log file's header banner")
	root.PersistentFlags().StringVar(&configPath, "config", ".lfvrc.json", "path to an optional .lfvrc.json config file")
	root.PersistentFlags().StringVar(&hostVersion, "host-version", "", "host language version gating numeral strictness (default v5.4)")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w%s", err, suggestFlagHint(err))
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if exitCode == ExitSuccess {
			exitCode = ExitInvalidArguments
		}
	}
	return exitCode
}

// run performs one expansion: load config, resolve flag/config fallbacks,
// expand inputPath, and write outputPath. It returns the exit code the
// caller should report and any error worth printing to stderr.
func run(inputPath string, force bool, outputPath, logPath string, logClear, logUnexp, logHeader bool, configPath, hostVersion string) (int, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config warning:", err)
	}

	if hostVersion == "" {
		hostVersion = cfg.HostVersion
	}
	if logPath == "" {
		logPath = cfg.LogPath
	}

	if outputPath == "" {
		outputPath = cliutil.DefaultOutputPath(inputPath)
	}
	if outputPath == inputPath {
		return ExitInvalidArguments, fmt.Errorf("inputFile and outputFile should not be equal")
	}

	var effectiveLogPath string
	if logPath != "" || cfg.Diagnostics {
		effectiveLogPath = logPath
	}

	if hostVersion != "" {
		lfv.HostVersion = hostVersion
	}

	opts := reader.LogOptions{Clear: logClear, Unexpanded: logUnexp, Header: logHeader}
	out, expandErr := lfv.ExpandFileWithOptions(inputPath, force, effectiveLogPath, opts)
	if expandErr != nil {
		var ee *reader.ExpandError
		if errors.As(expandErr, &ee) {
			return ExitExpansionError, fmt.Errorf("expansion error ln %d: %s", ee.Line, ee.Msg)
		}
		return ExitExpansionError, expandErr
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return ExitIOError, fmt.Errorf("write error: %w", err)
	}

	return ExitSuccess, nil
}

// suggestFlagHint extracts the unrecognized flag name from cobra's
// "unknown flag: --xyz" error text and offers a fuzzy-matched correction.
func suggestFlagHint(err error) string {
	const marker = "unknown flag: --"
	idx := strings.Index(err.Error(), marker)
	if idx < 0 {
		return ""
	}
	typo := err.Error()[idx+len(marker):]
	if s := cliutil.SuggestFlag(typo, knownFlags); s != "" {
		return fmt.Sprintf(" (did you mean --%s?)", s)
	}
	return ""
}
