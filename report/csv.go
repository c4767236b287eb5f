package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/plasmonlab/sprsweep/resonance"
)

// row formats one record as the two contractual CSV columns.
func row(r resonance.Record) []string {
	return []string{
		fmt.Sprintf("%.6f", r.Value),
		fmt.Sprintf("%.6f", r.AngleDeg),
	}
}

// CSVSink streams records into a CSV file, one flushed row per record, so
// that records written before a mid-run failure or cancellation survive on
// disk. Create with NewCSVSink, hand Emit to resonance.WithOnRecord, and
// Close when the run ends.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// NewCSVSink opens path in write/truncate mode. Callers should validate the
// run first (resonance.Validate) so a rejected run creates no file.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("report: create %s: %w", path, err)
	}

	return &CSVSink{f: f, w: csv.NewWriter(f)}, nil
}

// Emit writes and flushes one record row.
func (s *CSVSink) Emit(r resonance.Record) error {
	if err := s.w.Write(row(r)); err != nil {
		return fmt.Errorf("report: write record: %w", err)
	}
	s.w.Flush()

	return s.w.Error()
}

// Close flushes pending rows and closes the file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	werr := s.w.Error()
	cerr := s.f.Close()
	if werr != nil {
		return fmt.Errorf("report: flush: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("report: close: %w", cerr)
	}

	return nil
}

// WriteCSV writes a completed record slice to path in one shot, truncating
// any previous file. Equivalent to streaming every record through a CSVSink.
func WriteCSV(path string, recs []resonance.Record) error {
	sink, err := NewCSVSink(path)
	if err != nil {
		return err
	}
	for _, r := range recs {
		if err = sink.Emit(r); err != nil {
			_ = sink.Close()

			return err
		}
	}

	return sink.Close()
}
