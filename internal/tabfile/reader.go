package tabfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Options controls how a delimited file is read.
type Options struct {
	// Delimiter for the file. If 0, defaults to ','.
	Delimiter rune
	// Encodings is the ordered list of candidate encodings tried in turn.
	// If empty, DefaultEncodings is used.
	Encodings []string
	// ChunkSize is the number of rows appended per allocation batch; 0 uses
	// a reasonable default. This bounds transient slice growth on large
	// files without changing the single-pass read model.
	ChunkSize int
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
}

// DefaultEncodings is the candidate order used when Options.Encodings is empty.
var DefaultEncodings = []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"}

// Table holds a fully read delimited file: a trimmed header plus raw string rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the index of the named column, matched
// case-insensitively after trimming, or -1.
func (t *Table) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

// decoders maps configured encoding names onto x/text decoders. A nil decoder
// means raw bytes must already be valid UTF-8.
var decoders = map[string]*encoding.Decoder{
	"utf-8":        nil,
	"utf8":         nil,
	"latin-1":      charmap.ISO8859_1.NewDecoder(),
	"latin1":       charmap.ISO8859_1.NewDecoder(),
	"iso-8859-1":   charmap.ISO8859_1.NewDecoder(),
	"cp1252":       charmap.Windows1252.NewDecoder(),
	"windows-1252": charmap.Windows1252.NewDecoder(),
}

// Read loads a delimited text file, trying each candidate encoding in order
// and returning the first clean parse. A missing file yields *FileMissingError;
// exhausting every encoding yields *DecodeExhaustedError. Each failed attempt
// is logged so a bad quarter can be diagnosed without rerunning.
func Read(path string, opt Options) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &FileMissingError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	encs := opt.Encodings
	if len(encs) == 0 {
		encs = DefaultEncodings
	}

	var attemptErrs []error
	for _, name := range encs {
		text, decErr := decode(raw, name)
		if decErr != nil {
			slog.Warn("encoding attempt failed", "file", path, "encoding", name, "err", decErr)
			attemptErrs = append(attemptErrs, fmt.Errorf("%s: %w", name, decErr))
			continue
		}
		t, parseErr := parse(path, text, opt)
		if parseErr != nil {
			slog.Warn("parse attempt failed", "file", path, "encoding", name, "err", parseErr)
			attemptErrs = append(attemptErrs, fmt.Errorf("%s: %w", name, parseErr))
			continue
		}
		return t, nil
	}
	return nil, &DecodeExhaustedError{Path: path, Encodings: encs, Errs: attemptErrs}
}

func decode(raw []byte, name string) (string, error) {
	dec, ok := decoders[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", &UnknownEncodingError{Name: name}
	}
	if dec == nil {
		if !utf8.Valid(raw) {
			return "", errors.New("invalid UTF-8 byte sequence")
		}
		return string(raw), nil
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func parse(path, text string, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{Name: path}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	chunk := opt.ChunkSize
	if chunk <= 0 {
		chunk = 50000
	}
	maxRows := opt.MaxRows

	t := &Table{Name: path, Header: header}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		row := make([]string, len(header))
		empty := true
		for i := range row {
			if i < len(rec) {
				v := strings.TrimSpace(rec[i])
				if strings.EqualFold(v, "NULL") {
					v = ""
				}
				row[i] = v
				if v != "" {
					empty = false
				}
			}
		}
		if empty {
			continue
		}
		if len(t.Rows) == cap(t.Rows) {
			grown := make([][]string, len(t.Rows), len(t.Rows)+chunk)
			copy(grown, t.Rows)
			t.Rows = grown
		}
		t.Rows = append(t.Rows, row)
		if maxRows > 0 && len(t.Rows) >= maxRows {
			break
		}
	}
	return t, nil
}
