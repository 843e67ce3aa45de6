// Package store writes generated records out: JSON, JSON lines and msgpack streams, and a
// SQLite database.
package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatMsgpack Format = "msgpack"
	FormatSQLite  Format = "sqlite"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatJSONL, FormatMsgpack, FormatSQLite:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Writer accepts records one at a time. Close flushes any framing the format needs.
type Writer interface {
	Write(record any) error
	Close() error
}

// NewWriter returns a stream writer for format. SQLite is opened with OpenSQLite instead.
func NewWriter(format Format, w io.Writer) (Writer, error) {
	switch format {
	case FormatJSON:
		return &jsonArrayWriter{w: w}, nil
	case FormatJSONL:
		return &jsonLinesWriter{enc: json.NewEncoder(w)}, nil
	case FormatMsgpack:
		return &msgpackWriter{enc: msgpack.NewEncoder(w)}, nil
	}
	return nil, fmt.Errorf("format %q is not a stream format", format)
}

// jsonArrayWriter emits a single JSON array, the layout downstream tooling reads.
type jsonArrayWriter struct {
	w     io.Writer
	count int
}

func (jw *jsonArrayWriter) Write(record any) error {
	buf, err := json.MarshalIndent(record, "  ", "  ")
	if err != nil {
		return fmt.Errorf("encoding record %d: %w", jw.count, err)
	}

	sep := ",\n  "
	if jw.count == 0 {
		sep = "[\n  "
	}

	if _, err := io.WriteString(jw.w, sep); err != nil {
		return err
	}
	if _, err := jw.w.Write(buf); err != nil {
		return err
	}

	jw.count++
	return nil
}

func (jw *jsonArrayWriter) Close() error {
	closing := "\n]\n"
	if jw.count == 0 {
		closing = "[]\n"
	}
	_, err := io.WriteString(jw.w, closing)
	return err
}

type jsonLinesWriter struct {
	enc *json.Encoder
}

func (jw *jsonLinesWriter) Write(record any) error {
	return jw.enc.Encode(record)
}

func (jw *jsonLinesWriter) Close() error {
	return nil
}

type msgpackWriter struct {
	enc *msgpack.Encoder
}

func (mw *msgpackWriter) Write(record any) error {
	return mw.enc.Encode(record)
}

func (mw *msgpackWriter) Close() error {
	return nil
}
