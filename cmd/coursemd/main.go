package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/coursemd/internal/backend"
	"github.com/gubarz/coursemd/internal/config"
	"github.com/gubarz/coursemd/internal/executor"
	"github.com/gubarz/coursemd/internal/logger"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "coursemd",
	Short: "Course module content toolkit",
	Long: `Toolkit for course module files.

Convert page content between Markdown and HTML, inspect the heading
outline of a module, edit pages in the terminal with autosave, and
talk to the course generation backend.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(tohtmlCmd, tomdCmd, previewCmd)
	rootCmd.AddCommand(outlineCmd, classifyCmd, normalizeCmd)
	rootCmd.AddCommand(editCmd, generateCmd, publishCmd)

	rootCmd.PersistentFlags().StringP("output", "o", "", "Output mode: print, copy, file")
	rootCmd.PersistentFlags().String("out-file", "", "Target file for -o file")
	rootCmd.PersistentFlags().Bool("print", false, "Print result (shorthand for -o print)")
	rootCmd.PersistentFlags().Bool("copy", false, "Copy result (shorthand for -o copy)")
	rootCmd.PersistentFlags().String("backend", "", "Backend base URL")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("backend_url", rootCmd.PersistentFlags().Lookup("backend"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// applyOutputFlags resolves the output shorthands into the configured mode
func applyOutputFlags(cmd *cobra.Command) {
	if p, _ := cmd.Flags().GetBool("print"); p {
		config.SetOutput("print")
	} else if c, _ := cmd.Flags().GetBool("copy"); c {
		config.SetOutput("copy")
	} else if o, _ := cmd.Flags().GetString("output"); o != "" {
		config.SetOutput(o)
	}
}

// newOutput builds an executor for delivering command results
func newOutput(cmd *cobra.Command) *executor.Executor {
	applyOutputFlags(cmd)
	exec := executor.NewExecutor(nil).WithWriter(cmd.OutOrStdout())
	if f, _ := cmd.Flags().GetString("out-file"); f != "" {
		exec = exec.WithOutputFile(f)
	}
	return exec
}

// newLogger builds a logger from config. Extra paths override stderr.
func newLogger(paths ...string) *logger.Logger {
	log, err := logger.New(config.GetLogMode(), paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return logger.Nop()
	}
	return log
}

func newBackend(log *logger.Logger) *backend.Client {
	return backend.New(
		config.GetBackendURL(),
		config.GetBackendToken(),
		config.GetBackendTimeout(),
		backend.WithLogger(log),
	)
}

// readInput reads the named file, or stdin when no file is given
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// outputJSON delivers v as indented JSON
func outputJSON(exec *executor.Executor, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return exec.Output(string(data))
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
