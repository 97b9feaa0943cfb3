package transfer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	apperrors "todo-list/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// headerWords are first-cell values that mark the first record as a header.
var headerWords = map[string]bool{
	"task": true,
	"text": true,
	"todo": true,
}

// Decode turns uploaded bytes into text. UTF-8 is tried first, with a
// leading byte order mark removed; anything else is read as Latin-1, which
// accepts every byte sequence.
func Decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", apperrors.NewDecodeError("csv upload", err)
	}
	return string(decoded), nil
}

// ParseUpload decodes raw and returns the task texts it contains, in file
// order. Blank rows and a header row are skipped. A file written by
// WriteCSV is recognised by its header and read from its Task column.
func ParseUpload(raw []byte) ([]string, error) {
	text, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return ParseTexts(strings.NewReader(text))
}

// ParseTexts reads CSV records from r and extracts one task text per row.
// Records may end in LF, CRLF or a lone CR.
func ParseTexts(r io.Reader) ([]string, error) {
	reader := csv.NewReader(transform.NewReader(r, newLineEndings()))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	texts := []string{}
	column := 0
	first := true

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewDecodeError("csv upload", err)
		}

		if first {
			first = false
			if col, ok := exportTaskColumn(record); ok {
				column = col
				continue
			}
			if len(record) > 0 && headerWords[strings.ToLower(strings.TrimSpace(record[0]))] {
				continue
			}
		}

		if column >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[column])
		if cell == "" {
			continue
		}
		texts = append(texts, cell)
	}

	return texts, nil
}

// exportTaskColumn reports the Task column of a header written by WriteCSV.
func exportTaskColumn(record []string) (int, bool) {
	if len(record) < 2 || !strings.EqualFold(strings.TrimSpace(record[0]), "id") {
		return 0, false
	}
	for i, cell := range record {
		if strings.EqualFold(strings.TrimSpace(cell), "task") {
			return i, true
		}
	}
	return 0, false
}
