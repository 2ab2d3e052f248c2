package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"maxloyalty.com/backoffice/utils"
)

const (
	SheetTransactions = "Transacciones"
	SheetSummary      = "Resumen"

	// metadata rows occupy 1-4, row 5 is blank, the table starts at 6
	headerRow = 6
)

// WriteXLSX renders the document as a workbook: a merged metadata block on
// top of the transaction table, plus a summary sheet when grouping keys
// are set.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return err
	}
	if err := writeTransactionSheet(f, doc); err != nil {
		return fmt.Errorf("write %s sheet: %w", SheetTransactions, err)
	}
	if groups := doc.groups(); len(groups) > 0 {
		if err := writeSummarySheet(f, doc.GroupKeys, groups); err != nil {
			return fmt.Errorf("write %s sheet: %w", SheetSummary, err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeTransactionSheet(f *excelize.File, doc Document) error {
	sheet := SheetTransactions
	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	headStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	meta := []string{
		doc.Meta.Title,
		"Empresa: " + doc.Meta.Company,
		"Periodo: " + doc.Meta.period(),
		"Generado: " + doc.Meta.generated(),
	}
	for i, text := range meta {
		r := i + 1
		start, end := fmt.Sprintf("A%d", r), fmt.Sprintf("%s%d", lastCol, r)
		if err := f.MergeCell(sheet, start, end); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, start, text); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.title
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, c.width/2); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", headerRow), &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headStyle); err != nil {
		return err
	}

	r := headerRow
	for _, t := range doc.Transactions {
		r++
		values := []any{
			t.Fecha.In(utils.MexicoCityTZ).Format("02/01/2006 15:04"),
			t.ClienteNombre,
			t.Estacion,
			t.Canal,
			t.TipoCombustible,
			t.Unidades,
			t.Monto,
			t.Descuento,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", r), &values); err != nil {
			return err
		}
	}

	if len(doc.Transactions) > 0 {
		r++
		total := Totals(doc.Transactions)
		values := []any{fmt.Sprintf("TOTAL (%d)", total.TransactionCount), nil, nil, nil, nil,
			total.TotalUnidades, total.TotalMonto, total.TotalDescuento}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", r), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("%s%d", lastCol, r), headStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("F%d", headerRow+1), fmt.Sprintf("%s%d", lastCol, r-1), moneyStyle); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, keys []Key, groups []Summary) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	labels := utils.Map(keys, func(k Key) string { return k.Label })
	header := make([]any, 0, len(keys)+4)
	for _, l := range labels {
		header = append(header, l)
	}
	header = append(header, "Transacciones", "Unidades", "Monto", "Descuento")

	title := "Resumen por " + strings.Join(labels, " y ")
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.MergeCell(SheetSummary, "A1", lastCol+"1"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetSummary, "A1", title); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetSummary, "A3", &header); err != nil {
		return err
	}

	for i, g := range groups {
		values := make([]any, 0, len(header))
		for _, k := range g.Keys {
			values = append(values, k)
		}
		values = append(values, g.TransactionCount, g.TotalUnidades, g.TotalMonto, g.TotalDescuento)
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", i+4), &values); err != nil {
			return err
		}
	}
	return nil
}
