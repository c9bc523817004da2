package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"empgrid/internal/model"
	"empgrid/internal/parse"
)

var rows = []model.Employee{
	{ID: "1", Name: "Jane Smith", JobTitle: "HR Manager", Age: 41, Nickname: "Ace", IsEmployee: true},
	{ID: "2", Name: "John, Jr.", JobTitle: "Content Writer", Age: 22},
}

func TestWriteCSV(t *testing.T) {
	var b bytes.Buffer
	if err := WriteCSV(&b, rows); err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: %q", lines)
	}
	if lines[0] != "id,name,jobTitle,age,nickname,isEmployee" {
		t.Fatalf("header: %s", lines[0])
	}
	if lines[2] != `2,"John, Jr.",Content Writer,22,,false` {
		t.Fatalf("row: %s", lines[2])
	}
}

func TestNDJSONDecodesBack(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.ndjson")
	if err := ToFile(p, "json", rows); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := parse.Records(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0] != rows[0] || got[1] != rows[1] {
		t.Fatalf("got %+v", got)
	}
}

func TestToFileErrors(t *testing.T) {
	dir := t.TempDir()
	if err := ToFile(filepath.Join(dir, "x"), "xml", rows); err == nil {
		t.Fatalf("expected format error")
	}
	if err := ToCSV(filepath.Join(dir, "y.csv"), nil); err == nil {
		t.Fatalf("expected empty error")
	}
}
