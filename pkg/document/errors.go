package document

import "fmt"

// UnsupportedFormatError is returned when an upload's extension is not on
// the allow-list. User-correctable: surfaced as a 400.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Filename)
}

// IngestionError wraps a parse failure on a recognized format. The parser's
// message is surfaced; the caller never crashes on a bad file.
type IngestionError struct {
	Filename string
	Err      error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("failed to process file %s: %v", e.Filename, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
