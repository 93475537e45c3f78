package frame

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

func missing(s string) bool {
	return s == "" || s == "NA" || s == "NaN"
}

// ReadCSV reads a header-first CSV stream into a frame. Numeric columns
// whose non-missing values are all 0 or 1 become Binary, other numeric
// columns Continuous. Non-numeric columns are label encoded in order of
// first appearance and marked Categorical. Missing cells ("", "NA",
// "NaN") become math.NaN.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("frame: read csv: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("frame: csv has no header row")
	}
	header := records[0]
	rows := records[1:]

	f := New()
	for j, name := range header {
		col := make([]string, len(rows))
		for i, rec := range rows {
			if j >= len(rec) {
				return nil, fmt.Errorf("frame: row %d has %d fields, want %d", i+1, len(rec), len(header))
			}
			col[i] = rec[j]
		}
		vals, kind := encodeColumn(col)
		if err := f.AddColumn(name, kind, vals); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ReadCSVFile reads a CSV file into a frame.
func ReadCSVFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

func encodeColumn(col []string) ([]float64, Kind) {
	numeric := true
	for _, s := range col {
		if missing(s) {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			numeric = false
			break
		}
	}

	vals := make([]float64, len(col))
	if numeric {
		binary := true
		for i, s := range col {
			if missing(s) {
				vals[i] = math.NaN()
				continue
			}
			v, _ := strconv.ParseFloat(s, 64)
			vals[i] = v
			if v != 0 && v != 1 {
				binary = false
			}
		}
		if binary {
			return vals, Binary
		}
		return vals, Continuous
	}

	// Label encode in order of first appearance.
	codes := map[string]int{}
	for i, s := range col {
		if missing(s) {
			vals[i] = math.NaN()
			continue
		}
		if _, ok := codes[s]; !ok {
			codes[s] = len(codes)
		}
		vals[i] = float64(codes[s])
	}
	return vals, Categorical
}

// WriteCSV writes the frame as header-first CSV. Binary and categorical
// cells are written as integers, NaN cells as empty strings.
func WriteCSV(w io.Writer, f *Frame) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.names); err != nil {
		return fmt.Errorf("frame: write csv: %w", err)
	}
	rec := make([]string, len(f.names))
	for i := 0; i < f.Rows(); i++ {
		for j := range f.cols {
			v := f.cols[j][i]
			switch {
			case math.IsNaN(v):
				rec[j] = ""
			case f.kinds[j] != Continuous:
				rec[j] = strconv.Itoa(int(v))
			default:
				rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("frame: write csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the frame to a CSV file.
func WriteCSVFile(path string, f *Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(file, f)
}
