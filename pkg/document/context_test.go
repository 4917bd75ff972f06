package document

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"attention-cv-be/pkg/store"
)

func doc(source, content string) store.Document {
	return store.Document{SourceName: source, FileKind: KindPDF, Content: content}
}

func TestBuildContext(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		if got := BuildContext(nil, 1000); got != "" {
			t.Errorf("BuildContext(nil) = %q, want empty", got)
		}
	})

	t.Run("all documents fit in order", func(t *testing.T) {
		docs := []store.Document{
			doc("cv.pdf", "page one"),
			doc("cv.pdf", "page two"),
			doc("skills.xlsx", "golang"),
		}
		want := "[Document: cv.pdf]\npage one\n\n[Document: cv.pdf]\npage two\n\n[Document: skills.xlsx]\ngolang"
		if got := BuildContext(docs, 1000); got != want {
			t.Errorf("BuildContext() = %q, want %q", got, want)
		}
	})

	t.Run("stops at first block that does not fit", func(t *testing.T) {
		docs := []store.Document{
			doc("a.pdf", "short"),
			doc("b.pdf", strings.Repeat("x", 500)),
			doc("c.pdf", "tail"),
		}
		got := BuildContext(docs, 60)
		if !strings.Contains(got, "short") {
			t.Errorf("first block missing: %q", got)
		}
		if strings.Contains(got, "xxx") || strings.Contains(got, "tail") {
			t.Errorf("oversized or later block included: %q", got)
		}
	})

	t.Run("first document truncated to budget", func(t *testing.T) {
		docs := []store.Document{doc("big.pdf", strings.Repeat("a", 5000))}
		maxLength := 200

		got := BuildContext(docs, maxLength)
		if len(got) > maxLength {
			t.Errorf("len = %d, exceeds budget %d", len(got), maxLength)
		}
		if !strings.HasSuffix(got, TruncationMarker) {
			t.Errorf("missing truncation marker: %q", got)
		}
		if !strings.HasPrefix(got, "[Document: big.pdf]\n") {
			t.Errorf("missing header: %q", got)
		}
	})

	t.Run("budget too small for header yields empty", func(t *testing.T) {
		docs := []store.Document{doc("big.pdf", "content")}
		if got := BuildContext(docs, 5); got != "" {
			t.Errorf("BuildContext() = %q, want empty", got)
		}
	})
}

func TestExtractSummary(t *testing.T) {
	long := strings.Repeat("b", 400)
	docs := []store.Document{
		{SourceName: "cv.pdf", FileKind: KindPDF, Content: "hello"},
		{SourceName: "cv.pdf", FileKind: KindPDF, Content: long},
		{SourceName: "notes.docx", FileKind: KindDocx, Content: "world"},
	}

	got := ExtractSummary(docs)
	if got.TotalDocuments != 3 {
		t.Errorf("TotalDocuments = %d", got.TotalDocuments)
	}
	if got.TotalTextLength != 5+400+5 {
		t.Errorf("TotalTextLength = %d", got.TotalTextLength)
	}
	if fmt.Sprint(got.FileKinds) != fmt.Sprint([]string{KindPDF, KindDocx}) {
		t.Errorf("FileKinds = %v", got.FileKinds)
	}
	if fmt.Sprint(got.SourceFiles) != fmt.Sprint([]string{"cv.pdf", "notes.docx"}) {
		t.Errorf("SourceFiles = %v", got.SourceFiles)
	}
	if len(got.Previews) != 3 {
		t.Fatalf("Previews count = %d", len(got.Previews))
	}
	if got.Previews[1].Preview != long[:150]+"..." {
		t.Errorf("long preview not capped: %d chars", len(got.Previews[1].Preview))
	}
	if got.Previews[0].Preview != "hello" {
		t.Errorf("short preview altered: %q", got.Previews[0].Preview)
	}
}

func TestTruncationKeepsRunesIntact(t *testing.T) {
	t.Run("preview cuts on rune count", func(t *testing.T) {
		content := strings.Repeat("é", 200)
		got := ExtractSummary([]store.Document{doc("cv.pdf", content)})

		want := strings.Repeat("é", previewLength) + "..."
		if got.Previews[0].Preview != want {
			t.Errorf("Preview = %q, want %q", got.Previews[0].Preview, want)
		}
	})

	t.Run("context budget backs up to a boundary", func(t *testing.T) {
		docs := []store.Document{doc("cv.pdf", strings.Repeat("日", 500))}
		maxLength := 100

		got := BuildContext(docs, maxLength)
		if !utf8.ValidString(got) {
			t.Errorf("truncation split a rune: %q", got)
		}
		if len(got) > maxLength {
			t.Errorf("len = %d, exceeds budget %d", len(got), maxLength)
		}
		if !strings.HasSuffix(got, TruncationMarker) {
			t.Errorf("missing truncation marker: %q", got)
		}
	})

	t.Run("TruncateRunes", func(t *testing.T) {
		cases := []struct {
			in    string
			limit int
			want  string
		}{
			{"héllo", 3, "hél"},
			{"héllo", 10, "héllo"},
			{"日本語テキスト", 2, "日本"},
			{"", 5, ""},
		}
		for _, tc := range cases {
			if got := TruncateRunes(tc.in, tc.limit); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		}
	})
}

func TestIngestUnsupportedFormat(t *testing.T) {
	s := NewService()

	_, err := s.Ingest([]byte("plain"), "resume.txt")
	if err == nil {
		t.Fatal("expected error for .txt upload")
	}
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error type = %T", err)
	}
	if unsupported.Filename != "resume.txt" {
		t.Errorf("Filename = %q", unsupported.Filename)
	}
}

func TestIsSupported(t *testing.T) {
	s := NewService()
	supported := []string{"a.pdf", "b.PDF", "c.docx", "d.doc", "e.xlsx", "f.xls"}
	for _, name := range supported {
		if !s.IsSupported(name) {
			t.Errorf("IsSupported(%q) = false", name)
		}
	}
	for _, name := range []string{"a.txt", "b.html", "noext"} {
		if s.IsSupported(name) {
			t.Errorf("IsSupported(%q) = true", name)
		}
	}
}
