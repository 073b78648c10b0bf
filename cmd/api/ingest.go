package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"project-builder-backend/internal/analytics"
	"project-builder-backend/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Extract text from a PDF or image and store it",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	filename := filepath.Base(path)
	if !ingest.Allowed(filename) {
		return fmt.Errorf("unsupported file type: %s", filename)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > a.cfg.MaxUploadBytes() {
		return fmt.Errorf("file too large (max %dMB)", a.cfg.MaxUploadSizeMB)
	}

	text, err := a.extractor.Extract(ctx, path)
	if err != nil {
		return fmt.Errorf("extract %s: %w", filename, err)
	}

	doc, err := a.documents.Save(ctx, filename, text)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	out := cmd.OutOrStdout()
	if doc == nil {
		fmt.Fprintf(out, "%s no text found in %s\n", color.YellowString("!"), filename)
		return nil
	}

	props := map[string]any{"filename": filename, "document_id": doc.ID}
	if err := analytics.Log(ctx, a.db, cliEnvelope(), analytics.EventDocumentIngested, props, ""); err != nil {
		a.log.Warn().Err(err).Msg("log document_ingested event")
	}

	fmt.Fprintf(out, "%s %s stored as %s\n", color.GreenString("✓"), filename, doc.ID)
	fmt.Fprintln(out, doc.Snippet)
	return nil
}
