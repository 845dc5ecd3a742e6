package receipt

import (
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// RenderPDF writes v as a single A4 page.
func RenderPDF(w io.Writer, v View) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.SetTitle("Struk "+v.ID, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, StoreName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, Tagline, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range [][2]string{
		{"Transaction ID:", v.ID},
		{"Date:", v.Date},
		{"Cashier:", v.Cashier},
	} {
		pdf.CellFormat(50, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{76, 20, 32, 32}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range []string{"Item", "Qty", "Price", "Subtotal"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for n, l := range v.Lines {
		// baris selang-seling beige / putih
		if n%2 == 0 {
			pdf.SetFillColor(245, 245, 220)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(widths[0], 7, l.Name, "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[1], 7, strconv.Itoa(l.Quantity), "1", 0, "R", true, 0, "")
		pdf.CellFormat(widths[2], 7, l.Price, "1", 0, "R", true, 0, "")
		pdf.CellFormat(widths[3], 7, l.Subtotal, "1", 0, "R", true, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	summary := [][2]string{{"Subtotal:", v.Subtotal}}
	if v.Discount != "" {
		summary = append(summary, [2]string{"Discount:", v.Discount})
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range summary {
		summaryRow(pdf, row, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	summaryRow(pdf, [2]string{"Total:", v.Total}, "T")
	summaryRow(pdf, [2]string{"Payment:", v.Payment}, "")
	summaryRow(pdf, [2]string{"Change:", v.Change}, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Terima kasih atas kunjungan Anda!", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Selamat menikmati!", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

func summaryRow(pdf *fpdf.Fpdf, row [2]string, border string) {
	pdf.CellFormat(80, 7, "", "", 0, "", false, 0, "")
	pdf.CellFormat(40, 7, row[0], border, 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, row[1], border, 1, "R", false, 0, "")
}
