package document

import (
	"path/filepath"
	"strings"
	"time"

	"attention-cv-be/pkg/store"

	"github.com/google/uuid"
)

// File kinds recognized by the ingestion service.
const (
	KindPDF   = "pdf"
	KindDocx  = "docx"
	KindExcel = "excel"
)

// supportedFormats maps file kind to its extensions.
var supportedFormats = map[string][]string{
	KindPDF:   {".pdf"},
	KindDocx:  {".docx", ".doc"},
	KindExcel: {".xlsx", ".xls"},
}

// Service extracts text from uploaded files and builds RAG context strings.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// SupportedFormats returns all allowed extensions, grouped order not
// guaranteed.
func (s *Service) SupportedFormats() []string {
	formats := make([]string, 0, 6)
	for _, exts := range supportedFormats {
		formats = append(formats, exts...)
	}
	return formats
}

// IsSupported checks the filename extension against the allow-list.
func (s *Service) IsSupported(filename string) bool {
	return kindOf(filename) != ""
}

func kindOf(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for kind, exts := range supportedFormats {
		for _, e := range exts {
			if e == ext {
				return kind
			}
		}
	}
	return ""
}

// Ingest extracts one or more documents from the raw file bytes. PDFs yield
// one document per page, spreadsheets one per sheet, word-processor files a
// single document. Unrecognized extensions fail with UnsupportedFormatError;
// parser failures are wrapped in IngestionError, never panics.
func (s *Service) Ingest(raw []byte, filename string) ([]store.Document, error) {
	kind := kindOf(filename)
	if kind == "" {
		return nil, &UnsupportedFormatError{Filename: filename}
	}

	texts, err := extractText(raw, kind)
	if err != nil {
		return nil, &IngestionError{Filename: filename, Err: err}
	}

	now := time.Now()
	docs := make([]store.Document, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs = append(docs, store.Document{
			ID:         uuid.New().String(),
			SourceName: filename,
			FileKind:   kind,
			Content:    text,
			IngestedAt: now,
		})
	}

	return docs, nil
}
