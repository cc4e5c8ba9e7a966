package cmd

import (
	"archive/zip"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/export"
	"github.com/kozaktomas/face-attendance/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the full attendance dataset to a ZIP archive",
	Long: `Export the roster, the subject registry and every attendance sheet
into a single ZIP archive, same layout as the /api/v1/export download.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("out", "attendance_export.zip", "Output archive path")
	exportCmd.Flags().String("data-dir", "", "Data directory for CSV files (overrides config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataDir := cfg.Storage.DataDir
	if dir := mustGetString(cmd, "data-dir"); dir != "" {
		dataDir = dir
	}

	st, err := store.Open(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	if err := st.Reconcile(); err != nil {
		return fmt.Errorf("reconciling subjects: %w", err)
	}

	files, err := export.Files(st)
	if err != nil {
		return fmt.Errorf("collecting files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("nothing to export in %s", dataDir)
	}

	outPath := mustGetString(cmd, "out")
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	zw := zip.NewWriter(out)
	for _, f := range files {
		if err := export.Add(zw, f); err != nil {
			zw.Close()
			return err
		}
		bar.Add(1)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}

	fmt.Printf("\nWrote %d files to %s\n", len(files), outPath)
	return nil
}
