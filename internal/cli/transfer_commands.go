package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"todo-list/internal/transfer"
)

func (r *RootCommand) newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task as CSV",
		Long: `Write every task in the SQLite list as CSV, newest first.

The output has the same columns as the download on the web page and can be
fed back through "todo import".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return r.errors.Handle("export tasks", r.export(cmd, out))
		},
	}
	cmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func (r *RootCommand) export(cmd *cobra.Command, out string) (err error) {
	container, closeFn, err := r.openServices(variantSQLite)
	if err != nil {
		return err
	}
	defer closeFn()

	service := container.TaskService
	tasks, err := service.ListTasks(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, ferr := os.Create(out)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	return transfer.WriteCSV(w, tasks, service.Location())
}

func (r *RootCommand) newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append tasks from a CSV file",
		Long: `Append one task per CSV row, using the first column as the task text.

A leading "task", "text" or "todo" header row is skipped, and a file written
by "todo export" is read from its Task column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := r.importFile(cmd, args[0])
			if err != nil {
				return r.errors.Handle("import tasks", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", english.Plural(n, "task", ""))
			return err
		},
	}
}

func (r *RootCommand) importFile(cmd *cobra.Command, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	texts, err := transfer.ParseUpload(raw)
	if err != nil {
		return 0, err
	}

	container, closeFn, err := r.openServices(variantSQLite)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	imported, err := container.TaskService.ImportTasks(cmd.Context(), texts)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("imported tasks", "file", path, "count", len(imported))
	return len(imported), nil
}
