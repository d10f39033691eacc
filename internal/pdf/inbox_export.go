package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"echobox/internal/models"
)

// Exporter renders an inbox into a downloadable PDF.
type Exporter interface {
	ExportInbox(w io.Writer, username string, messages []*models.Message) error
}

type InboxExporter struct {
	fontName string
}

func NewInboxExporter() *InboxExporter {
	return &InboxExporter{fontName: "Helvetica"}
}

func (g *InboxExporter) ExportInbox(w io.Writer, username string, messages []*models.Message) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Echobox inbox - %s", username), true)
	pdf.SetAuthor("Echobox", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	pdf.AddPage()

	// ===== Title
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "Anonymous messages", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("@%s  -  exported %s", username, time.Now().Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	if len(messages) == 0 {
		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, "No messages yet.", "", "L", false)
		return pdf.Output(w)
	}

	// messages arrive newest-first; keep that order on paper
	for i, msg := range messages {
		pdf.SetFont(g.fontName, "B", 11)
		head := fmt.Sprintf("#%d  %s", i+1, msg.CreatedAt.Format("02.01.2006 15:04"))
		pdf.CellFormat(0, 6, head, "", 1, "L", false, 0, "")

		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, msg.Content, "", "L", false)
		pdf.Ln(1)
		g.hr(pdf)
	}

	return pdf.Output(w)
}

func (g *InboxExporter) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
