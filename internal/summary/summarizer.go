// Package summary produces contract summaries via the chat model, chunking
// long documents and degrading to a deterministic excerpt on failure.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ruleforge/ruleforge/internal/rules"
)

const (
	// DefaultMaxLength is the target summary length in words.
	DefaultMaxLength = 300

	// chunkThreshold is the document size above which the text is
	// summarized chunk by chunk and the partial summaries combined.
	chunkThreshold = 8000

	// maxChunkSize bounds a single chunk sent to the model.
	maxChunkSize = 6000

	// minChunkLength skips fragments too short to summarize.
	minChunkLength = 100
)

// ChatCompleter is the slice of the chat client the summarizer needs.
type ChatCompleter interface {
	Enabled() bool
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int64) (string, error)
}

// Summarizer generates document summaries.
type Summarizer struct {
	chat     ChatCompleter
	detector rules.LanguageDetector
	logger   *slog.Logger
}

// NewSummarizer creates a summarizer. A nil detector selects the Vietnamese
// heuristic.
func NewSummarizer(chat ChatCompleter, detector rules.LanguageDetector, logger *slog.Logger) *Summarizer {
	if detector == nil {
		detector = rules.VietnameseHeuristic{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{chat: chat, detector: detector, logger: logger}
}

// Summarize produces a summary of at most roughly maxLength words.
// Long documents are summarized per chunk and the combined partials
// re-summarized. On model failure or when no model is configured the
// deterministic SimpleSummary is returned instead.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if len(strings.TrimSpace(text)) < 50 {
		return "Text is too short to summarize effectively."
	}
	if !s.chat.Enabled() {
		s.logger.Debug("Summary model disabled, using simple summary")
		return SimpleSummary(text, maxLength)
	}

	if len(text) <= chunkThreshold {
		return s.summarizeChunk(ctx, text, maxLength)
	}

	chunks := chunkText(text, maxChunkSize)
	var partials []string
	for _, chunk := range chunks {
		if len(strings.TrimSpace(chunk)) < minChunkLength {
			continue
		}
		partial := s.summarizeChunk(ctx, chunk, maxLength/len(chunks))
		if partial != "" {
			partials = append(partials, partial)
		}
	}

	switch len(partials) {
	case 0:
		return SimpleSummary(text, maxLength)
	case 1:
		return partials[0]
	default:
		return s.summarizeChunk(ctx, strings.Join(partials, " "), maxLength)
	}
}

// summarizeChunk summarizes a single chunk, degrading to SimpleSummary on
// model failure.
func (s *Summarizer) summarizeChunk(ctx context.Context, text string, maxLength int) string {
	locale := s.detector.LanguageHint(text)
	prompt := fmt.Sprintf(`Please provide a concise and comprehensive summary of the following document.
The summary should capture the key points, main ideas, and important details while being approximately %d words or less.
%s

Document:
%s

Summary:`, maxLength, summaryInstruction(locale), text)

	maxTokens := int64(min(maxLength*3, 2048))
	content, err := s.chat.Complete(ctx, "", prompt, 0.7, maxTokens)
	if err != nil {
		s.logger.Warn("Summarization call failed, using simple summary", "error", err)
		return SimpleSummary(text, maxLength)
	}
	return strings.TrimSpace(content)
}

func summaryInstruction(locale rules.Locale) string {
	if locale == rules.LocaleVietnamese {
		return "IMPORTANT: Please write the summary in Vietnamese language (tiếng Việt). The document is in Vietnamese, so the summary must also be in Vietnamese."
	}
	return "Please write the summary in English."
}

// chunkText splits text into chunks of at most maxSize characters,
// preferring paragraph boundaries and falling back to sentence boundaries
// for a single oversized paragraph.
func chunkText(text string, maxSize int) []string {
	var chunks []string
	for _, chunk := range splitBy(text, "\n\n", maxSize) {
		if len(chunk) > maxSize {
			chunks = append(chunks, splitBy(chunk, ". ", maxSize)...)
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

func splitBy(text, sep string, maxSize int) []string {
	var chunks []string
	var current strings.Builder

	for _, part := range strings.Split(text, sep) {
		if current.Len()+len(part)+len(sep) > maxSize && current.Len() > 0 {
			if chunk := strings.TrimSpace(current.String()); chunk != "" {
				chunks = append(chunks, chunk)
			}
			current.Reset()
		}
		current.WriteString(part)
		current.WriteString(sep)
	}
	if chunk := strings.TrimSpace(current.String()); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// SimpleSummary is the deterministic fallback: the leading paragraphs that
// fit the length budget, or the first three sentences when none do.
func SimpleSummary(text string, maxLength int) string {
	var summary strings.Builder
	for _, paragraph := range strings.Split(text, "\n\n") {
		if summary.Len()+len(paragraph) >= maxLength {
			break
		}
		summary.WriteString(paragraph)
		summary.WriteString(" ")
	}

	if strings.TrimSpace(summary.String()) == "" {
		sentences := strings.Split(text, ". ")
		for i, sentence := range sentences {
			if i >= 3 {
				break
			}
			summary.WriteString(sentence)
			summary.WriteString(". ")
		}
	}

	result := strings.TrimSpace(summary.String())
	if result == "" {
		return "Unable to generate summary from this document."
	}
	return result
}
