package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// DocWriter 在 fpdf 之上提供逐行写入与统一分页。
// 每次写入前都检查游标是否越过页底阈值，越过即换页，调用方无需自行判断。
type DocWriter struct {
	pdf        *fpdf.Fpdf
	bottom     float64
	usable     float64
	lineHeight float64
}

// NewDocWriter 创建 A4 纵向文档写入器。
func NewDocWriter() *DocWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	// 分页由 ensure 统一控制
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	return &DocWriter{
		pdf:        pdf,
		bottom:     pageHeight - 15,
		usable:     pageWidth - left - right,
		lineHeight: 6,
	}
}

func (w *DocWriter) ensure(height float64) {
	if w.pdf.GetY()+height > w.bottom {
		w.pdf.AddPage()
	}
}

// Title 居中大标题。
func (w *DocWriter) Title(text string) {
	w.ensure(12)
	w.pdf.SetFont("Helvetica", "B", 16)
	w.pdf.CellFormat(w.usable, 10, text, "", 1, "C", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.Ln(2)
}

// Heading 分区标题。
func (w *DocWriter) Heading(text string) {
	w.ensure(10)
	w.pdf.SetFont("Helvetica", "B", 12)
	w.pdf.CellFormat(w.usable, 8, text, "B", 1, "L", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.Ln(1)
}

// Line 普通文本行。
func (w *DocWriter) Line(text string) {
	w.ensure(w.lineHeight)
	w.pdf.CellFormat(w.usable, w.lineHeight, text, "", 1, "L", false, 0, "")
}

// KeyValue 左侧标签右侧取值的一行。
func (w *DocWriter) KeyValue(key, value string) {
	w.ensure(w.lineHeight)
	w.pdf.SetFont("Helvetica", "B", 10)
	w.pdf.CellFormat(50, w.lineHeight, key, "", 0, "L", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.CellFormat(w.usable-50, w.lineHeight, value, "", 1, "L", false, 0, "")
}

// Table 等宽列表格，表头与每一行都各自参与分页检查。
func (w *DocWriter) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	colWidth := w.usable / float64(len(headers))

	w.ensure(w.lineHeight)
	w.pdf.SetFont("Helvetica", "B", 9)
	for _, h := range headers {
		w.pdf.CellFormat(colWidth, w.lineHeight, h, "1", 0, "L", false, 0, "")
	}
	w.pdf.Ln(-1)

	w.pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		w.ensure(w.lineHeight)
		for i := 0; i < len(headers); i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			w.pdf.CellFormat(colWidth, w.lineHeight, cell, "1", 0, "L", false, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.Ln(2)
}

// PageCount 返回当前页数。
func (w *DocWriter) PageCount() int {
	return w.pdf.PageCount()
}

// Bytes 输出 PDF 字节。
func (w *DocWriter) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
