package report

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
	"github.com/selivandex/marketpulse/pkg/templates"
)

// Writer renders a market report to markdown and writes it to disk.
// It consumes the report read-only: ranking and ordering are pipeline
// responsibilities, never re-sorted here.
type Writer struct {
	renderer templates.Renderer
	dir      string
}

// NewWriter creates a report writer targeting the given directory
func NewWriter(renderer templates.Renderer, dir string) *Writer {
	return &Writer{
		renderer: renderer,
		dir:      dir,
	}
}

// Render produces the markdown body for a report
func (w *Writer) Render(report *models.MarketReport) (string, error) {
	output, err := w.renderer.ExecuteTemplate("daily_report.tmpl", report)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return output, nil
}

// Write renders the report and writes it to <dir>/Report_<date>.md,
// returning the rendered body and the file path
func (w *Writer) Write(report *models.MarketReport) (string, string, error) {
	body, err := w.Render(report)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create report dir: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("Report_%s.md", report.GeneratedAt.Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write report: %w", err)
	}

	logger.Info("report written",
		zap.String("path", path),
		zap.Int("records", len(report.Records)),
	)

	return body, path, nil
}
