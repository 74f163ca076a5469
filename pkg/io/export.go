package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rvno/roadline/pkg/timeline"
)

// WriteEntries encodes entries to w. The output reads back with
// [ReadEntries]. CSV is not written; the club keeps spreadsheets as the
// source of truth.
func WriteEntries(w io.Writer, entries []timeline.Entry, format Format) error {
	if entries == nil {
		entries = []timeline.Entry{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Entries: entries}); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("cannot write entries as %q", format)
}

// ExportEntries writes entries to path in the format of its extension.
func ExportEntries(path string, entries []timeline.Entry) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteEntries(f, entries, format)
}
