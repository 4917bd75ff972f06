package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// extractors maps file kind to its parser.
var extractors = map[string]func([]byte) ([]string, error){
	KindPDF:   extractPDF,
	KindDocx:  extractDocx,
	KindExcel: extractExcel,
}

// extractText dispatches to the extractor for the file kind. The pdf parser
// panics on some malformed inputs, so the whole extraction runs under a
// recover that converts panics to errors.
func extractText(raw []byte, kind string) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts = nil
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	extract, ok := extractors[kind]
	if !ok {
		return nil, fmt.Errorf("no extractor for kind: %s", kind)
	}
	return extract(raw)
}

// extractPDF returns one text per page.
func extractPDF(raw []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var texts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages rather than losing the whole file
			continue
		}
		texts = append(texts, text)
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("no extractable text in pdf")
	}
	return texts, nil
}

// extractDocx returns the whole document as a single text.
func extractDocx(raw []byte) ([]string, error) {
	doc, err := docx.Parse(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	var sb strings.Builder
	for _, it := range doc.Document.Body.Items {
		switch it.(type) {
		case *docx.Paragraph, *docx.Table:
			fmt.Fprintln(&sb, it)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no extractable text in document")
	}
	return []string{text}, nil
}

// extractExcel returns one text per sheet, rows joined with tabs.
func extractExcel(raw []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	// Close releases the decode buffers on every exit path.
	defer f.Close()

	var texts []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Sheet: %s\n", sheet)
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteByte('\n')
		}
		texts = append(texts, sb.String())
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("no extractable sheets in spreadsheet")
	}
	return texts, nil
}
