package tabfile

import (
	"fmt"
	"strings"
)

// FileMissingError indicates a source file that does not exist. Callers treat
// a missing mandatory table as fatal for its quarter, so this must stay
// distinguishable from decode failures.
type FileMissingError struct {
	Path string
}

func (e *FileMissingError) Error() string {
	return fmt.Sprintf("file missing: %s", e.Path)
}

// DecodeExhaustedError indicates that none of the candidate encodings produced
// a clean parse of the file.
type DecodeExhaustedError struct {
	Path      string
	Encodings []string
	Errs      []error
}

func (e *DecodeExhaustedError) Error() string {
	return fmt.Sprintf("no candidate encoding decoded %s (tried %s)",
		e.Path, strings.Join(e.Encodings, ", "))
}

// UnknownEncodingError indicates a configured encoding name with no decoder.
type UnknownEncodingError struct {
	Name string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding: %s", e.Name)
}
