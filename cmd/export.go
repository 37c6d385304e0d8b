package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/chatview/internal"
	"github.com/iksnae/chatview/internal/export"
	"github.com/spf13/cobra"
)

var (
	format        string
	outputDir     string
	exportSession string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to files",
	Long: `Export chat sessions to json, jsonl, yaml, md or html, one file per session.

Exports every session unless --session names one.
Use 'chatview list' to see session numbers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sessions := a.store.Sessions()
		if exportSession != "" {
			i, err := a.sessionArg(exportSession)
			if err != nil {
				return err
			}
			sessions = sessions[i : i+1]
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: outputDir, Err: err}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		var failures []error
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d session(s) to %s", len(sessions), outputDir), func() error {
			for _, session := range sessions {
				path := filepath.Join(outputDir, fmt.Sprintf("session_%s.%s", session.ID, exporter.Extension()))
				if err := exportFile(exporter, session, path); err != nil {
					internal.LogError("Failed to export session %s: %v", session.ID, err)
					failures = append(failures, &internal.ExportError{Format: format, Path: path, Err: err})
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		if len(failures) > 0 {
			return errors.Join(failures...)
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d session(s) exported to %s", len(sessions), outputDir))
		return nil
	},
}

func exportFile(exporter export.Exporter, session *internal.ChatSession, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exporter.Export(session, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (json, jsonl, yaml, md, html)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVarP(&exportSession, "session", "s", "", "Export only this session number")
}
