package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strconv"

	"empgrid/internal/model"
)

var header = []string{"id", "name", "jobTitle", "age", "nickname", "isEmployee"}

// ToFile writes recs to path in the given format (csv or json).
func ToFile(path, format string, recs []model.Employee) error {
	switch format {
	case "csv":
		return ToCSV(path, recs)
	case "json":
		return ToNDJSON(path, recs)
	default:
		return errors.New("unknown export format " + strconv.Quote(format))
	}
}

func ToCSV(path string, recs []model.Employee) error {
	if len(recs) == 0 {
		return errors.New("no rows")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteCSV(f, recs); err != nil {
		return err
	}
	return f.Close()
}

func WriteCSV(w io.Writer, recs []model.Employee) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range recs {
		row := []string{e.ID, e.Name, e.JobTitle, strconv.Itoa(e.Age), e.Nickname, strconv.FormatBool(e.IsEmployee)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ToNDJSON(path string, recs []model.Employee) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := WriteNDJSON(bw, recs); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func WriteNDJSON(w io.Writer, recs []model.Employee) error {
	enc := json.NewEncoder(w)
	for _, e := range recs {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
