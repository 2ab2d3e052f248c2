package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatXLSX:
		return f, nil
	case "":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown report format %q (pdf or xlsx)", s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Render writes the document in the given format.
func Render(doc Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatXLSX:
		err = WriteXLSX(&buf, doc)
	case FormatPDF, "":
		err = WritePDF(&buf, doc)
	default:
		err = fmt.Errorf("unknown report format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is e.g. transacciones_2025-03-01_2025-03-31.pdf.
func FileName(meta Metadata, f Format) string {
	return fmt.Sprintf("transacciones_%s_%s.%s", meta.From.Format(time.DateOnly), meta.To.Format(time.DateOnly), f)
}

// MaxGroupKeys is how many keys a summary can be grouped by.
const MaxGroupKeys = 2

// KeysByName resolves a list of group key names, ignoring blanks. At most
// MaxGroupKeys distinct keys are accepted.
func KeysByName(names []string) ([]Key, error) {
	var keys []Key
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("group key %q repeated", name)
		}
		seen[name] = true
		k, err := KeyByName(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if len(keys) > MaxGroupKeys {
		return nil, fmt.Errorf("at most %d group keys, got %d", MaxGroupKeys, len(keys))
	}
	return keys, nil
}
