// Package table reads and updates exposure files: a primary header of
// keywords plus named extension tables of numeric columns, stored as YAML.
package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingTable is returned when a table is absent, empty or duplicated.
	ErrMissingTable = errors.New("required table missing")

	// ErrMissingOutputColumns is returned when columns to update are absent.
	ErrMissingOutputColumns = errors.New("output columns missing")

	// ErrMissingKeyword is returned when a header keyword is absent or not numeric.
	ErrMissingKeyword = errors.New("header keyword missing")
)

// Mode controls whether Close writes changes back.
type Mode int

const (
	ModeReadOnly Mode = iota
	ModeUpdate
)

// Header holds primary or extension header keywords.
type Header map[string]any

// HDU is one extension: a header and a set of equal-length columns.
type HDU struct {
	ExtName string               `yaml:"extname"`
	Header  Header               `yaml:"header,omitempty"`
	Columns map[string][]float64 `yaml:"columns,omitempty"`
}

// Document is the on-disk layout of an exposure file.
type Document struct {
	Header     Header `yaml:"header"`
	Extensions []*HDU `yaml:"extensions"`
}

// File is an open exposure file. Changes made through SetColumn are written
// when Close is called on a file opened with ModeUpdate.
type File struct {
	path   string
	mode   Mode
	doc    Document
	dirty  bool
	closed bool
}

// Open reads an exposure file.
func Open(path string, mode Mode) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exposure file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse exposure file %s: %w", path, err)
	}
	if doc.Header == nil {
		doc.Header = Header{}
	}

	return &File{path: path, mode: mode, doc: doc}, nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Header returns the primary header.
func (f *File) Header() Header {
	return f.doc.Header
}

// FindTable returns the single extension whose EXTNAME matches extname
// (case-insensitive). Absent, duplicated and empty tables all wrap
// ErrMissingTable.
func (f *File) FindTable(extname string) (*Table, error) {
	var found *HDU
	for _, hdu := range f.doc.Extensions {
		if hdu == nil || !strings.EqualFold(hdu.ExtName, extname) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: there are at least two HDUs with EXTNAME = %s; there should only be one",
				ErrMissingTable, strings.ToUpper(extname))
		}
		found = hdu
	}

	if found == nil {
		return nil, fmt.Errorf("%w: an %s table is required", ErrMissingTable, extname)
	}

	t := &Table{file: f, hdu: found}
	if t.Rows() < 1 {
		return nil, fmt.Errorf("%w: the %s table is empty", ErrMissingTable, extname)
	}
	return t, nil
}

// Close writes pending changes (ModeUpdate only) and releases the file.
// Close is safe to call more than once.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if f.mode != ModeUpdate || !f.dirty {
		return nil
	}
	return f.save()
}

// save replaces the file atomically via a temp file in the same directory.
// The replacement keeps the original permission bits.
func (f *File) save() error {
	data, err := yaml.Marshal(&f.doc)
	if err != nil {
		return fmt.Errorf("encode exposure file: %w", err)
	}
	st, err := os.Stat(f.path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".barytime-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(st.Mode().Perm()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}

	f.dirty = false
	return nil
}

// Float returns a numeric keyword. Keyword lookup is case-insensitive.
func (h Header) Float(key string) (float64, error) {
	v, ok := h.lookup(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingKeyword, key)
	}

	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s is %T, not a number", ErrMissingKeyword, key, v)
	}
}

// Has reports whether a keyword is present.
func (h Header) Has(key string) bool {
	_, ok := h.lookup(key)
	return ok
}

func (h Header) lookup(key string) (any, bool) {
	if v, ok := h[key]; ok {
		return v, true
	}
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}
