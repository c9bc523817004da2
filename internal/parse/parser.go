package parse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"empgrid/internal/model"
)

// ErrInvalidAge reports an age that is not a whole number in int32 range.
var ErrInvalidAge = errors.New("age must be a whole number")

// wireRecord accepts the loose shapes found in hand-written seed files:
// ids as numbers or strings, ages as numbers or numeric strings.
type wireRecord struct {
	ID         json.RawMessage `json:"id"`
	Name       string          `json:"name"`
	JobTitle   string          `json:"jobTitle"`
	Age        json.RawMessage `json:"age"`
	Nickname   string          `json:"nickname"`
	IsEmployee bool            `json:"isEmployee"`
}

// Line decodes a single JSON object into a record.
func Line(line string) (model.Employee, error) {
	var w wireRecord
	if err := json.Unmarshal([]byte(line), &w); err != nil {
		return model.Employee{}, err
	}
	return w.record()
}

// Records decodes either a JSON array of records or newline-delimited JSON.
// Blank lines are skipped.
func Records(r io.Reader) ([]model.Employee, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if first == '[' {
		var ws []wireRecord
		if err := json.NewDecoder(br).Decode(&ws); err != nil {
			return nil, err
		}
		out := make([]model.Employee, 0, len(ws))
		for i, w := range ws {
			e, err := w.record()
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			out = append(out, e)
		}
		return out, nil
	}
	out := []model.Employee{}
	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		t := strings.TrimSpace(sc.Text())
		if t == "" {
			continue
		}
		e, err := Line(t)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsAny(b, " \t\r\n") {
			return b[0], nil
		}
		_, _ = br.ReadByte()
	}
}

func (w wireRecord) record() (model.Employee, error) {
	id, err := scalarString(w.ID)
	if err != nil {
		return model.Employee{}, fmt.Errorf("id: %w", err)
	}
	if id == "" {
		return model.Employee{}, errors.New("id: missing")
	}
	e := model.Employee{ID: id, Name: w.Name, JobTitle: w.JobTitle, Nickname: w.Nickname, IsEmployee: w.IsEmployee}
	if len(w.Age) > 0 {
		s, err := scalarString(w.Age)
		if err != nil {
			return model.Employee{}, fmt.Errorf("age: %w", err)
		}
		if s != "" {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
			if err != nil {
				return model.Employee{}, fmt.Errorf("age %q: %w", s, ErrInvalidAge)
			}
			e.Age = int(n)
		}
	}
	return e, nil
}

func scalarString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unexpected %T", v)
	}
}
