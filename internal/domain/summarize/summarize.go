// Package summarize implements the kagi_summarize tool: one upstream call,
// then best-effort extraction of the summary text from the loosely-typed
// response document.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kagimcp/kagimcp/internal/infra/kagi"
)

// Summarizer runs one summarizer call. Implemented by the kagi transport
// client.
type Summarizer interface {
	Summarize(ctx context.Context, in kagi.SummarizeRequest) (map[string]any, error)
}

// Service wraps a Summarizer with input validation and response extraction.
type Service struct {
	summarizer Summarizer
	log        *slog.Logger
}

// NewService creates a Service.
func NewService(summarizer Summarizer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{summarizer: summarizer, log: log}
}

// Run summarizes the given URL or raw text (exactly one must be provided)
// with the optional engine choice.
func (s *Service) Run(ctx context.Context, url, text, engine string) (string, error) {
	url, text = strings.TrimSpace(url), strings.TrimSpace(text)
	if (url == "") == (text == "") {
		return "", fmt.Errorf("summarize: exactly one of url or text is required")
	}

	resp, err := s.summarizer.Summarize(ctx, kagi.SummarizeRequest{
		URL:    url,
		Text:   text,
		Engine: engine,
	})
	if err != nil {
		return "", err
	}

	summary, ok := extractSummary(resp)
	if !ok {
		s.log.Warn("summarizer response carried no recognizable summary field")
		return "", fmt.Errorf("summarize: response carried no summary")
	}
	return summary, nil
}

// extractSummary probes the known field locations, newest response shape
// first. Best-effort: an unknown shape reports not found rather than failing
// on structure.
func extractSummary(resp map[string]any) (string, bool) {
	if s, ok := resp["summary"].(string); ok && s != "" {
		return s, true
	}
	if od, ok := resp["output_data"].(map[string]any); ok {
		if s, ok := od["markdown"].(string); ok && s != "" {
			return s, true
		}
		if s, ok := od["text"].(string); ok && s != "" {
			return s, true
		}
	}
	if s, ok := resp["output_text"].(string); ok && s != "" {
		return s, true
	}
	return "", false
}
