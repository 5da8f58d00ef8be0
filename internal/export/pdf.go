package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/crmdesk/crmdesk/config"
)

const ContentTypePDF = "application/pdf"

const (
	EngineFpdf        = "fpdf"
	EngineWkhtmltopdf = "wkhtmltopdf"
)

// Engine turns a Document into PDF bytes
type Engine interface {
	Render(ctx context.Context, doc *Document) ([]byte, error)
}

// NewEngine picks the engine named by export.pdf_engine
func NewEngine(cfg config.ExportConfig) (Engine, error) {
	switch cfg.PdfEngine {
	case "", EngineFpdf:
		return &FpdfEngine{}, nil
	case EngineWkhtmltopdf:
		if cfg.WkhtmltopdfPath != "" {
			wkhtmltopdf.SetPath(cfg.WkhtmltopdfPath)
		}
		return &WkhtmltopdfEngine{BinPath: cfg.WkhtmltopdfPath}, nil
	default:
		return nil, fmt.Errorf("unsupported pdf engine %q", cfg.PdfEngine)
	}
}

// FpdfEngine draws the table directly, no external binary required.
type FpdfEngine struct{}

var fpdfWidths = []float64{42, 45, 62, 32, 45, 38}

func (e *FpdfEngine) Render(ctx context.Context, doc *Document) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("crmdesk", true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetModificationDate(doc.GeneratedAt)
	pdf.SetAutoPageBreak(false, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+doc.GeneratedAt.Format(TimeLayout), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(232, 232, 232)
		for i, col := range Columns {
			pdf.CellFormat(fpdfWidths[i], 7, col, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	for n, row := range doc.Rows {
		if n%50 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if pdf.GetY() > pageHeight-20 {
			pdf.AddPage()
			header()
		}
		for i, value := range row.Values() {
			pdf.CellFormat(fpdfWidths[i], 6, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 6, "Total customers: "+strconv.Itoa(len(doc.Rows)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render pdf")
	}
	return buf.Bytes(), nil
}

// WkhtmltopdfEngine converts Document.HTML with the wkhtmltopdf binary.
// BinPath is installed process wide by NewEngine; Render only reads it.
type WkhtmltopdfEngine struct {
	BinPath string
}

func (e *WkhtmltopdfEngine) Render(ctx context.Context, doc *Document) ([]byte, error) {
	html, err := doc.HTML()
	if err != nil {
		return nil, errors.Wrap(err, "render html")
	}
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, errors.Wrap(err, "wkhtmltopdf not available")
	}
	pdfg.Orientation.Set(wkhtmltopdf.OrientationLandscape)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Title.Set(doc.Title)
	pdfg.AddPage(wkhtmltopdf.NewPageReader(bytes.NewReader(html)))
	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, errors.Wrap(err, "wkhtmltopdf")
	}
	return pdfg.Bytes(), nil
}
