package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"attention-cv-be/internal/constant"
	"attention-cv-be/pkg/ai/protocol"
	"attention-cv-be/pkg/document"
	"attention-cv-be/pkg/llm"
	"attention-cv-be/pkg/store"
)

// EditorContext is the caller's current editor state, forwarded verbatim so
// the model edits what the user actually sees.
type EditorContext struct {
	Code     string
	Filename string
	Language string
}

// CodeResult is the outcome of one code-generation turn. Exactly one of
// Code or Incremental is populated: incremental edits carry no full
// artifact, and a full artifact carries no operation list.
type CodeResult struct {
	Explanation string
	Code        string
	Filename    string
	Language    string
	Incremental *protocol.IncrementalUpdate
}

// CodeAgent generates HTML/CSS/JS artifacts or incremental edit operations
// against the caller's editor buffer.
type CodeAgent struct {
	llmProvider   llm.LLMProvider
	logger        *log.Logger
	contextLength int // document context budget in the full-generation prompt
}

func NewCodeAgent(llmProvider llm.LLMProvider, contextLength int, logger *log.Logger) *CodeAgent {
	return &CodeAgent{
		llmProvider:   llmProvider,
		logger:        logger,
		contextLength: contextLength,
	}
}

// Execute runs one code-generation turn. Incremental mode is used only when
// the caller enabled it and the editor holds non-blank code; otherwise the
// agent regenerates the full artifact. A reply that fails incremental
// parsing is reinterpreted as a full artifact rather than dropped.
func (a *CodeAgent) Execute(ctx context.Context, session *store.Session, request string, editor EditorContext, enableIncremental bool) (*CodeResult, string, error) {
	filename := editor.Filename
	if filename == "" {
		filename = constant.DefaultFilename
	}
	language := editor.Language
	if language == "" {
		language = constant.DefaultLanguage
	}

	hasCode := strings.TrimSpace(editor.Code) != ""
	incrementalMode := enableIncremental && hasCode

	var prompt string
	if incrementalMode {
		prompt = a.buildIncrementalPrompt(session, request, editor, language)
	} else {
		prompt = a.buildFullPrompt(session, request, editor, filename, language)
	}

	a.logger.Printf("[CODE] Executing (incremental=%v, prompt=%d chars)", incrementalMode, len(prompt))

	reply, err := a.llmProvider.Generate(ctx, prompt)
	if err != nil {
		a.logger.Printf("[CODE] LLM error: %v", err)
		errorMessage := fmt.Sprintf("Sorry, an error occurred while generating code: %v", err)
		session.Append(newMessage(store.RoleUser, request))
		session.Append(newMessage(store.RoleAssistant, errorMessage))
		return nil, errorMessage, err
	}

	result := &CodeResult{Filename: filename, Language: language}
	if incrementalMode {
		update, parseErr := protocol.ParseIncremental(reply)
		if parseErr != nil {
			a.logger.Printf("[CODE] Incremental parse failed, falling back to full generation: %v", parseErr)
			artifact := protocol.ParseFull(reply, filename, language)
			result.Explanation = artifact.Explanation
			result.Code = artifact.Code
			result.Filename = artifact.Filename
			result.Language = artifact.Language
		} else {
			result.Explanation = update.Explanation
			result.Incremental = update
		}
	} else {
		artifact := protocol.ParseFull(reply, filename, language)
		result.Explanation = artifact.Explanation
		result.Code = artifact.Code
		result.Filename = artifact.Filename
		result.Language = artifact.Language
	}

	// The session log records what was produced, never the code itself.
	summary := fmt.Sprintf("%s\n\nGenerated code: %s (%s)", result.Explanation, result.Filename, result.Language)
	session.Append(newMessage(store.RoleUser, request))
	session.Append(newMessage(store.RoleAssistant, summary))

	return result, "", nil
}

func (a *CodeAgent) buildIncrementalPrompt(session *store.Session, request string, editor EditorContext, language string) string {
	return fmt.Sprintf(constant.CodeIncrementalPromptV1,
		language,
		editor.Code,
		request,
		renderHistory(session.Recent(constant.HistoryWindow)),
	)
}

func (a *CodeAgent) buildFullPrompt(session *store.Session, request string, editor EditorContext, filename, language string) string {
	ragContext := ""
	if docs := session.Documents(); len(docs) > 0 {
		ragContext = document.BuildContext(docs, a.contextLength)
	}

	codeContext := ""
	if strings.TrimSpace(editor.Code) != "" {
		preview := editor.Code
		if cut := document.TruncateRunes(preview, constant.CodeContextPreviewLength); cut != preview {
			preview = cut + "...(truncated)"
		}
		codeContext = fmt.Sprintf(constant.CodeEditorContextV1, filename, language, language, preview)
	}

	return fmt.Sprintf(constant.CodeFullPromptV1,
		ragContext,
		renderHistory(session.Recent(constant.HistoryWindow)),
		codeContext,
		request,
	)
}

func renderHistory(messages []store.Message) string {
	if len(messages) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, msg := range messages {
		label := "User"
		if msg.Role == store.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&sb, "%s: %s\n", label, msg.Content)
	}
	return sb.String()
}
