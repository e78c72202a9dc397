// Package sheet turns an uploaded workbook into name groups.
//
// The first sheet is read row by row and transposed so that every column
// becomes one group: a label followed by the names below it.
package sheet

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .xls.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrNoNames is returned when the first sheet has no non-blank cell.
var ErrNoNames = errors.New("spreadsheet contains no names")

// xlsMaxColumns is the BIFF8 column limit.
const xlsMaxColumns = 256

// Extensions accepted by ReadGroups.
var Extensions = []string{".xlsx", ".xls"}

// ReadGroups reads the first sheet of the workbook in r and returns its
// columns. The format is picked from the extension of filename.
func ReadGroups(r io.ReadSeeker, filename string) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "file %q", filepath.Base(filename))
	}
	if err != nil {
		return nil, err
	}

	groups := Transpose(rows)
	if len(groups) == 0 {
		return nil, ErrNoNames
	}
	return groups, nil
}

// Transpose turns rows into columns. Every column is built on its own from
// the rows long enough to reach it, blank cells are dropped and columns left
// empty are omitted.
func Transpose(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var columns [][]string
	for col := 0; col < width; col++ {
		var column []string
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			if cell := strings.TrimSpace(row[col]); cell != "" {
				column = append(column, cell)
			}
		}
		if len(column) > 0 {
			columns = append(columns, column)
		}
	}
	return columns
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoNames
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheets[0])
	}
	return rows, nil
}

func readXLS(r io.ReadSeeker) ([][]string, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, errors.Wrap(err, "open xls")
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, errors.Wrap(ErrNoNames, "open xls")
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, ErrNoNames
	}

	var rows [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := xlsRow(ws, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, xlsCells(row))
	}
	return rows, nil
}

// xlsCells reads every column of row up to the last non-empty one. The ROW
// record's column bounds are not used: rows created from cell records alone
// report 0 for both.
func xlsCells(row *xls.Row) []string {
	cells := make([]string, xlsMaxColumns)
	last := -1
	for c := range cells {
		if cells[c] = row.Col(c); cells[c] != "" {
			last = c
		}
	}
	return cells[:last+1]
}

// xlsRow returns row i of ws, or nil when the sheet stores no such row.
// WorkSheet.Row dereferences a nil entry for missing rows.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}
