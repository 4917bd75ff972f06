package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Literal markers of the model reply protocol. The wire contract is fixed
// for model compatibility; parsing is implemented as ordered states with an
// explicit fallback at each step rather than blind string splitting.
const (
	MarkerExplanation = "EXPLANATION:"
	MarkerOperations  = "INCREMENTAL_OPERATIONS:"
	MarkerCode        = "CODE:"
	MarkerFilename    = "FILENAME:"
	MarkerLanguage    = "LANGUAGE:"
)

const defaultOperation = "replace"

// FallbackExplanation is used when a reply carries no explanation section.
const FallbackExplanation = "Generated code based on your request"

// CodeOperation is one targeted edit against existing editor content.
type CodeOperation struct {
	Operation  string `json:"operation"` // replace|insert|delete|append|prepend
	Target     string `json:"target"`    // line number, function name or selector
	OldContent string `json:"old_content,omitempty"`
	NewContent string `json:"new_content"`
	LineStart  *int   `json:"line_start,omitempty"`
	LineEnd    *int   `json:"line_end,omitempty"`
}

// IncrementalUpdate is an ordered set of edit operations plus explanation.
type IncrementalUpdate struct {
	UpdateType      string          `json:"update_type"` // always "incremental"
	Operations      []CodeOperation `json:"operations"`
	Explanation     string          `json:"explanation"`
	EstimatedImpact string          `json:"estimated_impact"` // low|medium|high
}

// FullArtifact is a parsed full-generation reply.
type FullArtifact struct {
	Explanation string
	Code        string
	Filename    string
	Language    string
}

// ParseIncremental extracts an incremental update from a model reply.
// State order:
//  1. locate the INCREMENTAL_OPERATIONS: marker (absent -> error)
//  2. take the text strictly between EXPLANATION: and the marker as explanation
//  3. scan for the first JSON array after the marker and decode it
//
// Any failure returns an error; the caller must fall back to treating the
// raw reply as full-generation output, never a partial edit set.
func ParseIncremental(reply string) (*IncrementalUpdate, error) {
	opsIdx := strings.Index(reply, MarkerOperations)
	if opsIdx < 0 {
		return nil, fmt.Errorf("missing %s marker", MarkerOperations)
	}

	explanation := ""
	if expIdx := strings.Index(reply[:opsIdx], MarkerExplanation); expIdx >= 0 {
		explanation = strings.TrimSpace(reply[expIdx+len(MarkerExplanation) : opsIdx])
	}

	arr, err := scanJSONArray(reply[opsIdx+len(MarkerOperations):])
	if err != nil {
		return nil, err
	}

	var operations []CodeOperation
	if err := json.Unmarshal([]byte(arr), &operations); err != nil {
		return nil, fmt.Errorf("decode operations: %w", err)
	}
	if len(operations) == 0 {
		return nil, fmt.Errorf("empty operations array")
	}

	for i := range operations {
		if operations[i].Operation == "" {
			operations[i].Operation = defaultOperation
		}
	}

	return &IncrementalUpdate{
		UpdateType:      "incremental",
		Operations:      operations,
		Explanation:     explanation,
		EstimatedImpact: "medium",
	}, nil
}

// scanJSONArray returns the first balanced [...] in s. The scanner tracks
// string and escape state so brackets inside operation content don't
// terminate the array early.
func scanJSONArray(s string) (string, error) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", fmt.Errorf("no JSON array after operations marker")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unterminated JSON array")
}

// ParseFull parses a full-generation reply. Applied left to right:
//  1. split once on CODE:; without it the entire reply becomes the code and
//     a generic explanation is substituted (the artifact is never empty when
//     the model responded with content)
//  2. the text before CODE: is the explanation, trimmed at a leading
//     EXPLANATION: marker when present
//  3. the text after CODE: is split at FILENAME:, the remainder at
//     LANGUAGE: (language lower-cased)
//
// A missing marker keeps the prior default at that state.
func ParseFull(reply, defaultFilename, defaultLanguage string) *FullArtifact {
	artifact := &FullArtifact{
		Filename: defaultFilename,
		Language: defaultLanguage,
	}
	if artifact.Filename == "" {
		artifact.Filename = "index.html"
	}
	if artifact.Language == "" {
		artifact.Language = "html"
	}

	codeIdx := strings.Index(reply, MarkerCode)
	if codeIdx < 0 {
		artifact.Code = reply
		artifact.Explanation = FallbackExplanation
		return artifact
	}

	head := reply[:codeIdx]
	if expIdx := strings.Index(head, MarkerExplanation); expIdx >= 0 {
		head = head[expIdx+len(MarkerExplanation):]
	}
	artifact.Explanation = strings.TrimSpace(head)
	if artifact.Explanation == "" {
		artifact.Explanation = FallbackExplanation
	}

	tail := reply[codeIdx+len(MarkerCode):]
	if fnIdx := strings.Index(tail, MarkerFilename); fnIdx >= 0 {
		artifact.Code = strings.TrimSpace(tail[:fnIdx])
		rest := tail[fnIdx+len(MarkerFilename):]
		if langIdx := strings.Index(rest, MarkerLanguage); langIdx >= 0 {
			if fn := strings.TrimSpace(rest[:langIdx]); fn != "" {
				artifact.Filename = fn
			}
			if lang := strings.TrimSpace(rest[langIdx+len(MarkerLanguage):]); lang != "" {
				artifact.Language = strings.ToLower(lang)
			}
		} else if fn := strings.TrimSpace(rest); fn != "" {
			artifact.Filename = fn
		}
	} else {
		artifact.Code = strings.TrimSpace(tail)
	}

	return artifact
}
