// Package export serializes flat entity records to CSV.
//
// The output contract targets spreadsheet tools with platform-local
// encoding defaults: files are UTF-8 with an explicit leading BOM so
// that Excel opens them correctly without an import dialog.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ErrNoEntities is returned when an export is attempted with zero
// records. Callers treat this as a warning, not a hard failure; no
// header-only file is ever written.
var ErrNoEntities = errors.New("no entities to export")

// Record maps field names to rendered cell values for one entity.
type Record map[string]string

// utf8BOM is the UTF-8 byte-order mark prepended to every export.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// preferredColumns is the fixed column prefix. These appear first and in
// this order whether or not any record populates them.
var preferredColumns = []string{
	"Handle",
	"EntityType",
	"Layer",
	"BlockName",
	"TextValue",
	"Radius",
	"Position",
}

// Columns computes the header for a set of records: the preferred prefix
// followed by every remaining field name that appears in any record,
// lexicographically sorted and deduplicated.
func Columns(records []Record) []string {
	preferred := make(map[string]bool, len(preferredColumns))
	for _, c := range preferredColumns {
		preferred[c] = true
	}

	seen := make(map[string]bool)
	var extra []string
	for _, rec := range records {
		for name := range rec {
			if preferred[name] || seen[name] {
				continue
			}
			seen[name] = true
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	cols := make([]string, 0, len(preferredColumns)+len(extra))
	cols = append(cols, preferredColumns...)
	return append(cols, extra...)
}

// Write serializes records to w as BOM-prefixed UTF-8 CSV. Fields absent
// from a record become empty cells; record keys outside the computed
// header are ignored. An empty record set returns ErrNoEntities without
// writing anything.
func Write(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return ErrNoEntities
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cols := Columns(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(cols))
	for _, rec := range records {
		for i, col := range cols {
			row[i] = rec[col]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to path, creating parent directories as
// needed. No file is created when the record set is empty.
func WriteFile(path string, records []Record) error {
	if len(records) == 0 {
		return ErrNoEntities
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a CSV stream previously produced by Write back into
// records, tolerating the leading BOM. Empty cells are omitted from the
// resulting records, mirroring how absent fields were serialized.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(NewBOMSkippingReader(r))

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := make(Record)
		for i, cell := range row {
			if i < len(header) && cell != "" {
				rec[header[i]] = cell
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
