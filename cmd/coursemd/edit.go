package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/coursemd/internal/config"
	"github.com/gubarz/coursemd/internal/executor"
	"github.com/gubarz/coursemd/internal/logger"
	"github.com/gubarz/coursemd/internal/markup"
	"github.com/gubarz/coursemd/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit <module>",
	Short: "Edit module pages in the terminal",
	Long: `Opens a module file in the interactive editor. Saved pages are
persisted after a short pause, to the file itself or to the backend
when --persist backend is set. Pending changes are written on exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringP("mode", "m", "", "Mode pages open in: markdown, html")
	editCmd.Flags().String("persist", "", "Where saves go: file, backend")
	editCmd.Flags().Duration("delay", 0, "Autosave delay (e.g. 2s)")
	editCmd.Flags().Bool("no-watch", false, "Do not reload the module when the file changes")

	viper.BindPFlag("autosave_delay", editCmd.Flags().Lookup("delay"))
}

func runEdit(cmd *cobra.Command, args []string) error {
	path := args[0]

	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		config.SetEditMode(mode)
	}
	if target, _ := cmd.Flags().GetString("persist"); target != "" {
		config.SetPersist(target)
	}

	// The alt screen owns the terminal, so logs go to a file
	log := newLogger(config.GetLogFile())
	defer log.Sync()

	persister, err := newPersister(path, log)
	if err != nil {
		return err
	}
	exec := executor.NewExecutor(persister).
		WithTimeout(config.GetBackendTimeout()).
		WithLogger(log)

	noWatch, _ := cmd.Flags().GetBool("no-watch")
	log.Info("editor started", "path", path, "persist", config.GetPersist(), "mode", config.GetEditMode())
	return ui.Run(exec, ui.Options{
		Path:  path,
		Mode:  markup.ParseMode(config.GetEditMode()),
		Delay: config.GetAutosaveDelay(),
		Style: config.GetPreviewStyle(),
		Watch: !noWatch,
		Log:   log,
	})
}

func newPersister(path string, log *logger.Logger) (executor.Persister, error) {
	switch target := config.GetPersist(); target {
	case "", "file":
		return executor.FilePersister{Path: path}, nil
	case "backend":
		return newBackend(log), nil
	default:
		return nil, fmt.Errorf("unknown persist target: %s (supported: file, backend)", target)
	}
}
