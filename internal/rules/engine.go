package rules

import (
	"context"
	"log/slog"

	"github.com/ruleforge/ruleforge/internal/llm"
)

// ChatCompleter is the slice of the chat client the engine needs.
type ChatCompleter interface {
	Enabled() bool
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int64) (string, error)
}

// Engine extracts structured rules from document text.
// Every extraction terminates in a well-formed RuleDocument: model failure
// routes to the deterministic fallback, parse failure to an empty document
// carrying the raw output.
type Engine struct {
	chat     ChatCompleter
	provider string
	detector LanguageDetector
	logger   *slog.Logger
}

// NewEngine creates a rule extraction engine. A nil detector selects the
// Vietnamese heuristic.
func NewEngine(chat ChatCompleter, provider string, detector LanguageDetector, logger *slog.Logger) *Engine {
	if detector == nil {
		detector = VietnameseHeuristic{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		chat:     chat,
		provider: provider,
		detector: detector,
		logger:   logger,
	}
}

// GenerateRules runs the extraction pipeline over document text.
// Never returns an error: when the model is unconfigured or the call fails,
// the pattern-matching fallback produces the result.
func (e *Engine) GenerateRules(ctx context.Context, text, documentType string) *RuleDocument {
	if documentType == "" {
		documentType = "contract"
	}
	if !e.chat.Enabled() {
		e.logger.Debug("Rule model disabled, using fallback extraction")
		return FallbackExtract(text, documentType)
	}

	locale := e.detector.LanguageHint(text)
	prompt := buildPrompt(text, documentType, locale)
	e.logger.Info("Requesting rule extraction", "text_length", len(text), "locale", string(locale))

	content, err := e.chat.Complete(ctx, systemPrompt, prompt, 0.3, 2048)
	if err != nil {
		e.logger.Warn("Rule extraction call failed, using fallback", "error", err)
		return FallbackExtract(text, documentType)
	}

	doc := parseResponse(content, e.provider)
	if doc.ParseError != "" {
		e.logger.Warn("Rule extraction response unparseable", "error", doc.ParseError)
	} else {
		e.logger.Info("Rules extracted", "rules", len(doc.BusinessRules), "variables", len(doc.Variables))
	}
	return doc
}

var _ ChatCompleter = (*llm.ChatClient)(nil)
