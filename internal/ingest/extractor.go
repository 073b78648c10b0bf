// Package ingest extracts text from uploaded PDFs and images and stores it
// as documents.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Extractor pulls plain text out of a file on disk.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// OCR shells out to tesseract for images and pdftotext for PDFs.
type OCR struct {
	TesseractPath string
	PdfToTextPath string
}

func (o OCR) Extract(ctx context.Context, path string) (string, error) {
	var cmd *exec.Cmd
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		cmd = exec.CommandContext(ctx, o.PdfToTextPath, "-layout", path, "-")
	} else {
		cmd = exec.CommandContext(ctx, o.TesseractPath, path, "stdout")
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", filepath.Base(cmd.Path), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
