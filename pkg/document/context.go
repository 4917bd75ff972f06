package document

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"attention-cv-be/pkg/store"
)

// TruncationMarker terminates a context whose first document had to be cut
// down to fit the budget.
const TruncationMarker = "...[truncated]"

const previewLength = 150

// BuildContext assembles a prompt context from the documents: greedy,
// order-preserving, whole blocks only. The one exception is the very first
// document: if its block alone exceeds maxLength, its content is truncated
// to fit and the truncation marker appended, so the context is never empty
// when at least one document exists and maxLength leaves room beyond the
// header. Deliberately not summarization; output must be deterministic.
func BuildContext(documents []store.Document, maxLength int) string {
	if len(documents) == 0 {
		return ""
	}

	var b strings.Builder
	for i, doc := range documents {
		header := fmt.Sprintf("[Document: %s]\n", doc.SourceName)
		content := strings.TrimSpace(doc.Content)

		sep := ""
		if b.Len() > 0 {
			sep = "\n\n"
		}

		if b.Len()+len(sep)+len(header)+len(content) > maxLength {
			if i == 0 {
				available := maxLength - len(header) - len(TruncationMarker)
				if available > 0 {
					if available > len(content) {
						available = len(content)
					}
					b.WriteString(header)
					b.WriteString(content[:runeBoundary(content, available)])
					b.WriteString(TruncationMarker)
				}
			}
			break
		}

		b.WriteString(sep)
		b.WriteString(header)
		b.WriteString(content)
	}

	return b.String()
}

// runeBoundary returns the largest cut point not above max that does not
// split a UTF-8 sequence.
func runeBoundary(s string, max int) int {
	if max >= len(s) {
		return len(s)
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return max
}

// TruncateRunes cuts s to at most limit runes. Unlike a byte slice it never
// splits a multibyte character.
func TruncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// DocumentPreview is a capped excerpt of one document.
type DocumentPreview struct {
	Source  string `json:"source"`
	Preview string `json:"preview"`
}

// Summary aggregates what a session has uploaded so far.
type Summary struct {
	TotalDocuments  int               `json:"total_documents"`
	FileKinds       []string          `json:"file_kinds"`
	SourceFiles     []string          `json:"source_files"`
	TotalTextLength int               `json:"total_text_length"`
	Previews        []DocumentPreview `json:"previews"`
}

// ExtractSummary builds the per-upload summary: totals, distinct kinds and
// sources, and a preview of each document capped at 150 characters.
func ExtractSummary(documents []store.Document) *Summary {
	summary := &Summary{
		FileKinds:   []string{},
		SourceFiles: []string{},
		Previews:    make([]DocumentPreview, 0, len(documents)),
	}

	kinds := make(map[string]bool)
	sources := make(map[string]bool)

	for _, doc := range documents {
		summary.TotalDocuments++
		summary.TotalTextLength += len(doc.Content)

		if !kinds[doc.FileKind] {
			kinds[doc.FileKind] = true
			summary.FileKinds = append(summary.FileKinds, doc.FileKind)
		}
		if !sources[doc.SourceName] {
			sources[doc.SourceName] = true
			summary.SourceFiles = append(summary.SourceFiles, doc.SourceName)
		}

		preview := strings.TrimSpace(doc.Content)
		if cut := TruncateRunes(preview, previewLength); cut != preview {
			preview = cut + "..."
		}
		summary.Previews = append(summary.Previews, DocumentPreview{
			Source:  doc.SourceName,
			Preview: preview,
		})
	}

	return summary
}
