// Package geoerr defines the error values used throughout geoworld. Errors
// are returned, never panicked past a package boundary, and carry enough
// context for a caller to render a user-facing diagnostic.
package geoerr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Format is the external format of geographic input data.
type Format int

const (
	FormatOSMJSON Format = iota
	FormatGeoJSON
)

func (f Format) String() string {
	switch f {
	case FormatOSMJSON:
		return "osm json"
	case FormatGeoJSON:
		return "geojson"
	default:
		return "unknown"
	}
}

// Kind classifies an error.
type Kind int

const (
	// KindInputSyntax is an immediate error in a caller-supplied query
	// string, detected before any external fetch.
	KindInputSyntax Kind = iota
	// KindIO is a transport failure, optionally carrying a status code and
	// the URL that failed.
	KindIO
	// KindDataSyntax means external data is structurally invalid or in an
	// unrecognized format.
	KindDataSyntax
	// KindMissingData means the request succeeded but data that is supposed
	// to be there is absent.
	KindMissingData
)

// Error is the tagged error value used throughout geoworld.
type Error struct {
	Kind    Kind
	Message string

	// Data-syntax context. Line and Column are 1-based; 0 means unknown.
	Format Format
	Line   int
	Column int

	// IO context. Status 0 means no status code was received.
	URL    string
	Status int
}

func (e *Error) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindInputSyntax:
		b.WriteString(e.Message)
	case KindIO:
		if e.Status != 0 {
			fmt.Fprintf(&b, "status %d ", e.Status)
		}
		b.WriteString(e.Message)
		if e.URL != "" {
			fmt.Fprintf(&b, " from url %s", e.URL)
		}
	case KindDataSyntax:
		b.WriteString(e.Message)
		if e.Line != 0 || e.Column != 0 {
			b.WriteString(" at")
		}
		if e.Line != 0 {
			fmt.Fprintf(&b, " line %d", e.Line)
		}
		if e.Column != 0 {
			fmt.Fprintf(&b, " char %d", e.Column)
		}
		fmt.Fprintf(&b, " which should be in valid %s format", e.Format)
	case KindMissingData:
		fmt.Fprintf(&b, "missing data! %s", e.Message)
	}
	return b.String()
}

// InputSyntax returns a query-syntax error.
func InputSyntax(format string, args ...any) *Error {
	return &Error{Kind: KindInputSyntax, Message: fmt.Sprintf(format, args...)}
}

// IO returns a transport error. Pass status 0 when no status code was
// received.
func IO(url string, status int, message string) *Error {
	return &Error{Kind: KindIO, URL: url, Status: status, Message: message}
}

// DataSyntax returns a structural error in external data.
func DataSyntax(format Format, message string) *Error {
	return &Error{Kind: KindDataSyntax, Format: format, Message: message}
}

// MissingData returns an error for structurally valid input lacking required
// information.
func MissingData(format string, args ...any) *Error {
	return &Error{Kind: KindMissingData, Message: fmt.Sprintf(format, args...)}
}

// FromJSON converts an encoding/json error into a data-syntax error, deriving
// the line and column from the byte offset where possible.
func FromJSON(data []byte, err error, format Format) *Error {
	e := &Error{Kind: KindDataSyntax, Format: format, Message: "syntax error in JSON"}
	var offset int64 = -1
	switch jsonErr := err.(type) {
	case *json.SyntaxError:
		offset = jsonErr.Offset
	case *json.UnmarshalTypeError:
		offset = jsonErr.Offset
	}
	if offset >= 0 && offset <= int64(len(data)) {
		e.Line, e.Column = lineColumn(data, offset)
	}
	return e
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(data []byte, offset int64) (line, column int) {
	head := data[:offset]
	line = bytes.Count(head, []byte{'\n'}) + 1
	if i := bytes.LastIndexByte(head, '\n'); i >= 0 {
		column = int(offset) - i
	} else {
		column = int(offset) + 1
	}
	return line, column
}
