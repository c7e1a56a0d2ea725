package export

import (
	"errors"
	"fmt"
	"strings"
)

// Format selects an output encoding for a MatchResult.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
)

// Formats lists every supported format in selector order.
var Formats = []Format{FormatXLSX, FormatCSV, FormatTXT}

// ErrUnknownFormat reports a format selector value outside Formats.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a selector value such as "xlsx", "CSV" or ".txt".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatXLSX, FormatCSV, FormatTXT:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension returns the filename extension, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type handed to the delivery side.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv;charset=utf-8"
	case FormatTXT:
		return "text/plain;charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
