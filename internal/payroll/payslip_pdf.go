package payroll

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// renderPayslipPDF menghasilkan payslip satu halaman tanpa library eksternal.
// Struktur PDF minimal: catalog, pages, satu page, font Helvetica, satu
// content stream berisi baris teks.
func renderPayslipPDF(p PayslipResponse) ([]byte, error) {
	lines := payslipLines(p)

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func payslipLines(p PayslipResponse) []string {
	lines := []string{
		"PAYSLIP " + p.PayrollNumber,
		"",
		"Staff: " + p.StaffName + " (" + p.StaffNumber + ")",
	}
	if p.Department != "" {
		lines = append(lines, "Department: "+p.Department)
	}
	lines = append(lines,
		"Period: "+p.PeriodLabel,
		"Run type: "+p.RunType,
		"Status: "+p.Status,
		"",
		"EARNINGS",
	)
	for _, e := range p.Earnings {
		lines = append(lines, "  "+e.Label+": "+formatMoney(p.Currency, e.Amount))
	}
	lines = append(lines, "", "STATUTORY DEDUCTIONS",
		"  Income Tax: "+formatMoney(p.Currency, p.TaxBreakdown.IncomeTax),
		"  Pension: "+formatMoney(p.Currency, p.TaxBreakdown.PensionContribution),
		"  Other: "+formatMoney(p.Currency, p.TaxBreakdown.Other),
	)
	if len(p.Deductions) > 0 {
		lines = append(lines, "", "OTHER DEDUCTIONS")
		for _, d := range p.Deductions {
			lines = append(lines, "  "+d.Label+": "+formatMoney(p.Currency, d.Amount))
		}
	}
	lines = append(lines, "",
		"Gross Pay: "+formatMoney(p.Currency, p.GrossPay),
		"Total Deductions: "+formatMoney(p.Currency, p.TotalDeductions),
		"NET PAY: "+formatMoney(p.Currency, p.NetPay),
	)
	if p.PaidAt != nil {
		lines = append(lines, "", "Paid at: "+*p.PaidAt)
	}
	return lines
}

// formatMoney menampilkan nominal satuan terkecil sebagai desimal dua digit.
func formatMoney(currency string, amount int64) string {
	return currency + " " + decimal.New(amount, -2).StringFixed(2)
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
