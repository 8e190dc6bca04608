// Package export renders transaction lists as spreadsheets and pasteable text.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"stylemanager-backend/models"
	"stylemanager-backend/utils"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	PayrollFilename = "Relatorio_Pagamento_Individual.xlsx"
	BalanceFilename = "Balanco_Geral.xlsx"
	BalanceSheet    = "Balanço Geral"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxSheetName = 30
)

var (
	payrollHeader = []interface{}{"Data", "Estilista", "Serviço", "Valor Total", "Comissão"}
	balanceHeader = []interface{}{"ID", "Data", "Estilista", "Serviço", "Receita Total", "Pagamento Estilista", "Receita Salão"}
	copyHeader    = []string{"Data", "Estilista", "Serviço", "Total", "Comissão", "Salão"}
)

// Sheet is one worksheet: a name and its rows, header first.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// Payroll builds the per-stylist payment sheets. With an employee filter the
// whole set goes to one sheet named after that stylist; otherwise there is one
// sheet per stylist in the order they first appear.
func Payroll(txs []models.Transaction, filterName string, loc *time.Location) []Sheet {
	if filterName != "" {
		s := Sheet{Name: filterName, Rows: [][]interface{}{payrollHeader}}
		for _, tx := range txs {
			s.Rows = append(s.Rows, payrollRow(tx, loc))
		}
		return []Sheet{s}
	}

	var order []uuid.UUID
	byEmployee := make(map[uuid.UUID]*Sheet)
	for _, tx := range txs {
		s, ok := byEmployee[tx.EmployeeID]
		if !ok {
			s = &Sheet{Name: tx.Employee.Name, Rows: [][]interface{}{payrollHeader}}
			byEmployee[tx.EmployeeID] = s
			order = append(order, tx.EmployeeID)
		}
		s.Rows = append(s.Rows, payrollRow(tx, loc))
	}

	sheets := make([]Sheet, 0, len(order))
	for _, id := range order {
		sheets = append(sheets, *byEmployee[id])
	}
	return sheets
}

func payrollRow(tx models.Transaction, loc *time.Location) []interface{} {
	return []interface{}{
		utils.FormatDateBR(tx.CreatedAt, loc),
		tx.Employee.Name,
		tx.ServiceName,
		tx.TotalAmount.InexactFloat64(),
		tx.EmployeeAmount.InexactFloat64(),
	}
}

// Balance builds the single general balance sheet.
func Balance(txs []models.Transaction, loc *time.Location) Sheet {
	s := Sheet{Name: BalanceSheet, Rows: [][]interface{}{balanceHeader}}
	for _, tx := range txs {
		s.Rows = append(s.Rows, []interface{}{
			tx.ID.String(),
			utils.FormatDateTimeBR(tx.CreatedAt, loc),
			tx.Employee.Name,
			tx.ServiceName,
			tx.TotalAmount.InexactFloat64(),
			tx.EmployeeAmount.InexactFloat64(),
			tx.CompanyAmount.InexactFloat64(),
		})
	}
	return s
}

// Workbook writes sheets into an xlsx file. Sheet names are made valid and
// unique first.
func Workbook(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := f.GetSheetName(0)
	used := make(map[string]bool)
	for i, s := range sheets {
		name := uniqueSheetName(s.Name, used)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}

		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", name, r+1, err)
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SheetName turns an arbitrary label into a valid worksheet name.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if utf8.RuneCountInString(name) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	if name == "" {
		name = "Planilha"
	}
	return name
}

// excel compares sheet names case-insensitively.
func uniqueSheetName(name string, used map[string]bool) string {
	base := SheetName(name)
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		keep := maxSheetName - utf8.RuneCountInString(suffix)
		runes := []rune(base)
		if len(runes) > keep {
			runes = runes[:keep]
		}
		candidate = string(runes) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// CopyText renders transactions as tab separated lines for pasting into a
// spreadsheet.
func CopyText(txs []models.Transaction, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(strings.Join(copyHeader, "\t"))
	for _, tx := range txs {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			utils.FormatDateBR(tx.CreatedAt, loc),
			tx.Employee.Name,
			tx.ServiceName,
			utils.FormatDecimalComma(tx.TotalAmount),
			utils.FormatDecimalComma(tx.EmployeeAmount),
			utils.FormatDecimalComma(tx.CompanyAmount),
		}, "\t"))
	}
	return b.String()
}
