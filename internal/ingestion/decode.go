package ingestion

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/guttosm/gastos/internal/domain/models"
)

// ErrUndecodablePayload is returned when a payload is neither a JSON
// array-of-arrays nor comma-separated text.
var ErrUndecodablePayload = errors.New("undecodable table payload")

// DecodeTable turns a textual sheet export into a Table.
//
// Decoding precedence:
//  1. JSON array of arrays, e.g. [["Data","Valor_total"],["05/09/2025","R$ 50,00"]].
//  2. JSON object with a "values" array of arrays (Sheets API ValueRange shape).
//  3. Comma-separated text. Rows may have different lengths.
//
// JSON scalars are stringified: numbers keep their literal text, booleans
// become "true"/"false" and null becomes "". If every decoder fails the error
// wraps ErrUndecodablePayload together with the JSON and CSV causes.
func DecodeTable(payload []byte) (models.Table, error) {
	t, jsonErr := decodeJSON(payload)
	if jsonErr == nil {
		return t, nil
	}
	t, csvErr := decodeCSV(payload)
	if csvErr == nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: json: %v; csv: %v", ErrUndecodablePayload, jsonErr, csvErr)
}

func decodeJSON(payload []byte) (models.Table, error) {
	var raw json.RawMessage
	if err := decodeStrict(payload, &raw); err != nil {
		return nil, err
	}

	var rows [][]any
	if err := decodeStrict(raw, &rows); err == nil {
		return rowsFromJSON(rows)
	}

	var vr struct {
		Values *[][]any `json:"values"`
	}
	if err := decodeStrict(raw, &vr); err != nil {
		return nil, err
	}
	if vr.Values == nil {
		return nil, errors.New(`json object without "values"`)
	}
	return rowsFromJSON(*vr.Values)
}

// decodeStrict decodes exactly one JSON value, keeping numbers as written.
func decodeStrict(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after JSON value")
	}
	return nil
}

func rowsFromJSON(rows [][]any) (models.Table, error) {
	out := make(models.Table, 0, len(rows))
	for i, r := range rows {
		row := make(models.Row, len(r))
		for j, v := range r {
			s, err := cellString(v)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			row[j] = s
		}
		out = append(out, row)
	}
	return out, nil
}

func cellString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("unsupported cell type %T", v)
	}
}

func decodeCSV(payload []byte) (models.Table, error) {
	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1 // ragged rows are normal in sheet exports

	var out models.Table
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		out = append(out, models.Row(rec))
	}
	if len(out) == 0 {
		return nil, errors.New("no records")
	}
	return out, nil
}

// FileSource reads a JSON or CSV export from disk on every fetch.
type FileSource struct {
	Path string
}

// FetchTable reads and decodes the file.
func (f FileSource) FetchTable(ctx context.Context) (models.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	t, err := DecodeTable(b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return t, nil
}
