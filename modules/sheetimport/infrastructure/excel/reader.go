package excel

import (
	"fmt"
	"io"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
)

var (
	ErrNoSheets = gerrors.New("workbook has no sheets")
	ErrTooLarge = gerrors.New("workbook exceeds the row limit")
)

// ReadWorkbook decodes the first sheet of an uploaded workbook into
// header-keyed rows. The first non-empty row is taken as the header;
// rows stream through the excelize iterator so the workbook is never
// fully materialized. Each row carries its 1-based sheet row number so
// skipped blank lines never shift traceability. maxRows bounds memory;
// 0 means no limit.
func ReadWorkbook(r io.Reader, maxRows int) ([]string, []importing.SheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoSheets
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("iterate sheet %q: %w", sheets[0], err)
	}
	defer func() { _ = iter.Close() }()

	var (
		header []string
		rows   []importing.SheetRow
		rowNum int
	)

	for iter.Next() {
		rowNum++
		cells, err := iter.Columns()
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}

		if header == nil {
			if rowBlank(cells) {
				continue
			}
			header = trimRight(cells)
			continue
		}

		if rowBlank(cells) {
			continue
		}
		if maxRows > 0 && len(rows) >= maxRows {
			return nil, nil, ErrTooLarge
		}

		cellsByLabel := make(importing.RawRow, len(header))
		for i, label := range header {
			if strings.TrimSpace(label) == "" {
				continue
			}
			if _, taken := cellsByLabel[label]; taken {
				// duplicate header label: first column wins
				continue
			}
			if i < len(cells) {
				cellsByLabel[label] = cells[i]
			} else {
				cellsByLabel[label] = ""
			}
		}
		rows = append(rows, importing.SheetRow{Number: rowNum, Cells: cellsByLabel})
	}
	if err := iter.Error(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}

	return header, rows, nil
}

func rowBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimRight(cells []string) []string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}
