package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/emert/crm-service/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(quote model.Quote, client model.Client) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, "Quote", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Quote No. %s, issued %s", quote.QuoteNumber, formatDate(quote.CreatedAt)), "", 1, "C", false, 0, "")
	if quote.ValidUntil != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Valid until %s", formatDate(*quote.ValidUntil)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	addClientBlock(pdf, g.fontName, client)
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, quote.Title, "", 1, "L", false, 0, "")
	if strings.TrimSpace(quote.Description) != "" {
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, quote.Description, "", "L", false)
	}
	pdf.Ln(2)

	headers := []string{"Service", "Qty", "Unit price", "Total"}
	colWidths := []float64{100, 20, 30, 30}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, item := range quote.Items {
		row := []string{
			item.ServiceName,
			fmt.Sprintf("%d", item.Quantity),
			formatAmount(item.UnitPrice),
			formatAmount(item.TotalPrice),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total: %s", formatAmount(quote.TotalAmount)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addClientBlock(pdf *gofpdf.Fpdf, fontName string, client model.Client) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, "Prepared for", "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		client.CompanyName,
		fmt.Sprintf("Attn: %s", safeValue(client.ContactName)),
		fmt.Sprintf("Email: %s", safeValue(client.Email)),
	}
	if strings.TrimSpace(client.Address) != "" {
		lines = append(lines, client.Address)
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
