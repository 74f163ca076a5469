package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/timeline"
)

// Format is an entry file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot tell the format of %s (want .json, .yaml or .csv)", path)
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown entry format %q", s)
}

// ImportEntries reads the entry file at path.
func ImportEntries(path string) ([]timeline.Entry, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()

	entries, err := ReadEntries(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// ReadEntries decodes entries from r and validates them. ReadEntries does
// not close r.
func ReadEntries(r io.Reader, format Format) ([]timeline.Entry, error) {
	var (
		entries []timeline.Entry
		err     error
	)
	switch format {
	case FormatJSON:
		entries, err = readJSON(r)
	case FormatYAML:
		entries, err = readYAML(r)
	case FormatCSV:
		entries, err = readCSV(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown entry format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Validate checks IDs and cover URLs.
func Validate(entries []timeline.Entry) error {
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if err := errors.ValidateKey(e.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidEntry, err, "entry %d", i+1)
		}
		if j, dup := seen[e.ID]; dup {
			return errors.New(errors.ErrCodeInvalidEntry, "entry %d: duplicate id %q (first seen at entry %d)", i+1, e.ID, j+1)
		}
		seen[e.ID] = i
		if err := errors.ValidateURL(e.CoverURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidEntry, err, "entry %q", e.ID)
		}
	}
	return nil
}

type document struct {
	Entries []timeline.Entry `json:"entries" yaml:"entries"`
	Albums  []timeline.Entry `json:"albums,omitempty" yaml:"albums,omitempty"`
}

func (d document) list() []timeline.Entry {
	if len(d.Entries) > 0 {
		return d.Entries
	}
	return d.Albums
}

func readJSON(r io.Reader) ([]timeline.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read")
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var entries []timeline.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON")
		}
		return entries, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON")
	}
	return doc.list(), nil
}

func readYAML(r io.Reader) ([]timeline.Entry, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML")
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.SequenceNode {
		var entries []timeline.Entry
		if err := root.Decode(&entries); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML")
		}
		return entries, nil
	}
	var doc document
	if err := root.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML")
	}
	return doc.list(), nil
}

// csvColumns maps accepted header names to entry fields.
var csvColumns = map[string]string{
	"id":              "id",
	"title":           "title",
	"event_date":      "date",
	"date":            "date",
	"description":     "description",
	"cover_photo_url": "cover",
	"cover":           "cover",
	"location_name":   "location",
	"location":        "location",
	"photo_count":     "photos",
	"photos":          "photos",
}

func readCSV(r io.Reader) ([]timeline.Entry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}
	cols := make(map[string]int)
	for i, h := range header {
		if field, ok := csvColumns[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[field] = i
		}
	}
	for _, need := range []string{"id", "title", "date"} {
		if _, ok := cols[need]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "CSV header is missing the %q column", need)
		}
	}

	var entries []timeline.Entry
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV line %d", line)
		}
		get := func(field string) string {
			if i, ok := cols[field]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		e := timeline.Entry{
			ID:          get("id"),
			Title:       get("title"),
			Date:        get("date"),
			Description: get("description"),
			CoverURL:    get("cover"),
			Location:    get("location"),
		}
		if s := get("photos"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return nil, errors.New(errors.ErrCodeInvalidEntry, "CSV line %d: bad photo_count %q", line, s)
			}
			e.PhotoCount = n
		}
		entries = append(entries, e)
	}
	return entries, nil
}
