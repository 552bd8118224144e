// Package sink writes the final member list and its summary.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"housemembers/internal/config"
	"housemembers/internal/logger"
	"housemembers/internal/models"
	"housemembers/pkg/metadata"
)

// Sink errors.
var (
	ErrPersistence = errors.New("failed to persist output")
	ErrNoMembers   = errors.New("no members to write")
)

// Paths lists the files written by a run.
type Paths struct {
	CSV     string
	JSON    string
	Summary string
}

// Sink writes members to CSV, JSON and an optional markdown summary, and
// prints the statistics tables.
type Sink struct {
	cfg   config.OutputConfig
	out   io.Writer
	log   *logger.Logger
	now   func() time.Time
	runID string
}

// New creates a sink. Tables are printed to out; a nil out disables them.
func New(cfg config.OutputConfig, out io.Writer, log *logger.Logger) *Sink {
	if out == nil {
		out = io.Discard
	}

	return &Sink{cfg: cfg, out: out, log: log, now: time.Now}
}

// WithRunID records id in the summary report's metadata block.
func (s *Sink) WithRunID(id string) *Sink {
	s.runID = id

	return s
}

// Path returns {dir}/{basename}{suffix}.{ext}.
func (s *Sink) Path(suffix, ext string) string {
	return filepath.Join(s.cfg.Dir, s.cfg.Basename+suffix+"."+ext)
}

// Write persists members and prints their summary. Existing files are
// overwritten. Any write failure wraps ErrPersistence.
func (s *Sink) Write(members []models.Member) (Paths, error) {
	if len(members) == 0 {
		return Paths{}, ErrNoMembers
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("%w: create %s: %w", ErrPersistence, s.cfg.Dir, err)
	}

	paths := Paths{
		CSV:  s.Path("", "csv"),
		JSON: s.Path("", "json"),
	}

	if err := writeFile(paths.CSV, func(w io.Writer) error { return WriteCSV(w, members) }); err != nil {
		return Paths{}, err
	}

	s.log.Info("wrote csv", "path", paths.CSV, "records", len(members))

	if err := writeFile(paths.JSON, func(w io.Writer) error { return WriteJSON(w, members) }); err != nil {
		return Paths{}, err
	}

	s.log.Info("wrote json", "path", paths.JSON, "records", len(members))

	summary := Summarize(members, s.cfg.SampleSize)

	if s.cfg.WantsSummaryReport() {
		paths.Summary = s.Path("_summary", "md")

		if err := writeFile(paths.Summary, func(w io.Writer) error { return s.writeSignedReport(w, summary) }); err != nil {
			return Paths{}, err
		}

		s.log.Info("wrote summary", "path", paths.Summary)
	}

	RenderTables(s.out, summary)

	return paths, nil
}

// writeSignedReport appends an integrity block so the report can be checked
// later with the verify command.
func (s *Sink) writeSignedReport(w io.Writer, summary Summary) error {
	var b strings.Builder
	if err := WriteReport(&b, summary); err != nil {
		return err
	}

	signed := metadata.Sign(b.String(), metadata.Metadata{
		RunID:       s.runID,
		GeneratedAt: s.now(),
		Members:     summary.Total,
		Sources:     len(summary.BySource),
	})

	_, err := io.WriteString(w, signed)

	return err
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()

		return fmt.Errorf("%w: write %s: %w", ErrPersistence, path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrPersistence, path, err)
	}

	return nil
}
