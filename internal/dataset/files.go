package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/xuri/excelize/v2"
)

// Table is one source file read into memory before any schema resolution.
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string
}

var errNoDataRows = errors.New("no data rows")

// DiscoverFiles walks dir recursively and returns every spreadsheet/CSV
// path, sorted for a reproducible load order. A missing directory is a
// valid "no data" state, not an error.
func DiscoverFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			// Excel lock files and hidden files
			return nil
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx", ".xlsm", ".csv":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadTable reads one source file into headers + rows. Returns an error for
// unreadable or empty files; callers skip the file and continue the batch.
func ReadTable(path string) (*Table, error) {
	var headers []string
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		headers, rows, err = readCSV(path)
	default:
		headers, rows, err = readWorkbook(path)
	}
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 || len(rows) == 0 {
		return nil, errNoDataRows
	}
	return &Table{Path: path, Headers: headers, Rows: rows}, nil
}

// readWorkbook opens an xlsx/xlsm via excelize and reads the first sheet.
// Opens are retried briefly: files on shared drives are intermittently
// locked by Excel clients.
func readWorkbook(path string) ([]string, [][]string, error) {
	var f *excelize.File
	open := func() error {
		var err error
		f, err = excelize.OpenFile(path)
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(200*time.Millisecond), 2)
	if err := backoff.Retry(open, policy); err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%q: no sheets", path)
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read %q: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, errNoDataRows
	}
	return all[0], all[1:], nil
}

func readCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errNoDataRows
		}
		return nil, nil, fmt.Errorf("read %q header: %w", path, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read %q row: %w", path, err)
		}
		rows = append(rows, record)
	}
	return header, rows, nil
}
