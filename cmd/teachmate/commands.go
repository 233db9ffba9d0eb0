package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/command"
	"github.com/noah-isme/teachmate/internal/models"
	"github.com/noah-isme/teachmate/internal/service"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
	"github.com/noah-isme/teachmate/pkg/export"
	"github.com/noah-isme/teachmate/pkg/storage"
)

func newExecCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:     "exec <command line>",
		Short:   "Run a single command and exit",
		Example: `  teachmate exec "add n/Amy Tan s/A0000001A e/amy@u.nus.edu m/CS2103T"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := (*a).session.Run(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if res.Feedback != "" {
				fmt.Fprintln(out, res.Feedback)
			}
			if res.ShowHelp {
				fmt.Fprintln(out, command.HelpText())
			}
			return err
		},
	}
}

func newExportCmd(a **app) *cobra.Command {
	var (
		format string
		module string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the roster to CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wired := *a
			exportFormat, err := service.ParseExportFormat(format)
			if err != nil {
				return err
			}
			var code models.ModuleCode
			if strings.TrimSpace(module) != "" {
				code, err = models.NewModuleCode(module)
				if err != nil {
					return err
				}
			}
			if outDir == "" {
				outDir = wired.cfg.Export.Dir
			}

			files, err := storage.NewLocalStorage(outDir)
			if err != nil {
				return fmt.Errorf("prepare export directory: %w", err)
			}
			svc := service.NewExportService(files, service.ExportConfig{Retention: wired.cfg.Export.Retention}, wired.logger,
				export.NewCSVExporter(), export.NewPDFExporter())

			if removed, err := svc.Cleanup(0); err != nil {
				wired.logger.Warn("export cleanup failed", zap.Error(err))
			} else if len(removed) > 0 {
				wired.logger.Info("expired exports removed", zap.Int("count", len(removed)))
			}

			result, err := svc.Export(cmd.Context(), wired.session.Persons(), service.ExportRequest{Format: exportFormat, Module: code})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d student(s) to %s\n", result.Rows, result.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(service.ExportFormatCSV), "output format: csv or pdf")
	cmd.Flags().StringVarP(&module, "module", "m", "", "only export students taking this module")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (defaults to EXPORTS_DIR)")
	return cmd
}

func newSnapshotCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect the roster snapshot mirrored to Redis",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the last published snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := (*a).snapshot.Fetch(cmd.Context())
			if errors.Is(err, appErrors.ErrCacheMiss) {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshot published (is ENABLE_SNAPSHOT_CACHE set?)")
				return nil
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d student(s) in snapshot\n", len(doc.Persons))
			for i, p := range doc.Persons {
				fmt.Fprintf(out, "%d. %s (%s)\n", i+1, p.Name, p.StudentID)
			}
			return nil
		},
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete the published snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).snapshot.Purge(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot purged")
			return nil
		},
	}

	cmd.AddCommand(show, purge)
	return cmd
}
