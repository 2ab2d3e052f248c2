package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"maxloyalty.com/backoffice/utils"
)

const (
	pdfFont      = "Helvetica"
	pdfRowHeight = 6.0
)

// WritePDF renders the document as a landscape letter table: metadata
// rows, column header, one row per transaction and a totals row.
func WritePDF(w io.Writer, doc Document) error {
	return writePDF(w, doc, true)
}

func writePDF(w io.Writer, doc Document, compress bool) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetCompression(compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.Meta.GeneratedAt)
	pdf.SetModificationDate(doc.Meta.GeneratedAt)
	pdf.SetTitle(doc.Meta.Title, true)
	pdf.SetAuthor(doc.Meta.GeneratedBy, true)
	pdf.SetCreator("maxloyalty backoffice", false)
	pdf.SetAutoPageBreak(true, 15)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 8, tr(doc.Meta.Title), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	for _, line := range []string{
		"Empresa: " + doc.Meta.Company,
		"Periodo: " + doc.Meta.period(),
		"Generado: " + doc.Meta.generated(),
	} {
		pdf.CellFormat(0, pdfRowHeight, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, pdfRowHeight+1, tr(c.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 8)
	for _, t := range doc.Transactions {
		for i, cell := range row(t) {
			align := "L"
			if i >= 5 {
				align = "R"
			}
			pdf.CellFormat(columns[i].width, pdfRowHeight, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(doc.Transactions) > 0 {
		total := Totals(doc.Transactions)
		pdf.SetFont(pdfFont, "B", 8)
		label := 0.0
		for _, c := range columns[:5] {
			label += c.width
		}
		pdf.CellFormat(label, pdfRowHeight, fmt.Sprintf("TOTAL (%d)", total.TransactionCount), "1", 0, "R", true, 0, "")
		pdf.CellFormat(columns[5].width, pdfRowHeight, fmt.Sprintf("%.2f", total.TotalUnidades), "1", 0, "R", true, 0, "")
		pdf.CellFormat(columns[6].width, pdfRowHeight, utils.FormatMoney(total.TotalMonto), "1", 0, "R", true, 0, "")
		pdf.CellFormat(columns[7].width, pdfRowHeight, utils.FormatMoney(total.TotalDescuento), "1", 1, "R", true, 0, "")
	}

	if groups := doc.groups(); len(groups) > 0 {
		writePDFSummary(pdf, tr, doc.GroupKeys, groups)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func writePDFSummary(pdf *fpdf.Fpdf, tr func(string) string, keys []Key, groups []Summary) {
	pdf.Ln(6)
	pdf.SetFont(pdfFont, "B", 11)
	labels := utils.Map(keys, func(k Key) string { return k.Label })
	pdf.CellFormat(0, 8, tr("Resumen por "+strings.Join(labels, " y ")), "", 1, "L", false, 0, "")

	const keyWidth, numWidth = 40.0, 30.0
	pdf.SetFont(pdfFont, "B", 9)
	for _, l := range labels {
		pdf.CellFormat(keyWidth, pdfRowHeight+1, tr(l), "1", 0, "C", true, 0, "")
	}
	for _, h := range []string{"Transacciones", "Unidades", "Monto", "Descuento"} {
		pdf.CellFormat(numWidth, pdfRowHeight+1, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 8)
	for _, g := range groups {
		for _, k := range g.Keys {
			pdf.CellFormat(keyWidth, pdfRowHeight, tr(k), "1", 0, "L", false, 0, "")
		}
		pdf.CellFormat(numWidth, pdfRowHeight, fmt.Sprintf("%d", g.TransactionCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(numWidth, pdfRowHeight, fmt.Sprintf("%.2f", g.TotalUnidades), "1", 0, "R", false, 0, "")
		pdf.CellFormat(numWidth, pdfRowHeight, utils.FormatMoney(g.TotalMonto), "1", 0, "R", false, 0, "")
		pdf.CellFormat(numWidth, pdfRowHeight, utils.FormatMoney(g.TotalDescuento), "1", 1, "R", false, 0, "")
	}
}
