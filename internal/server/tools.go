package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kagimcp/kagimcp/internal/domain/assistant"
	"github.com/kagimcp/kagimcp/internal/domain/history"
)

type searchArgs struct {
	Queries []string `json:"queries" jsonschema:"One or more concise search queries, fired concurrently"`
}

type summarizeArgs struct {
	URL    string `json:"url,omitempty" jsonschema:"URL of the page, video or document to summarize"`
	Text   string `json:"text,omitempty" jsonschema:"Raw text to summarize instead of a URL"`
	Engine string `json:"engine,omitempty" jsonschema:"Summarization engine: cecil, agnes, daphne or muriel"`
}

type assistantArgs struct {
	Prompt          string `json:"prompt" jsonschema:"The question or instruction for the assistant"`
	NewConversation *bool  `json:"new_conversation,omitempty" jsonschema:"Start a fresh conversation instead of continuing the previous one (default true)"`
	Model           string `json:"model,omitempty" jsonschema:"Assistant model to use; must be one of the configured models"`
	InternetAccess  *bool  `json:"internet_access,omitempty" jsonschema:"Allow the assistant to search the web (default true)"`
	OutputFormat    string `json:"output_format,omitempty" jsonschema:"Reply representation: markdown, plain or verbatim (default markdown)"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "kagi_search",
		Description: "Fetch web results from Kagi Search. Accepts multiple queries; one well-scoped query per distinct aspect of the question works best.",
	}, s.handleSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "kagi_summarize",
		Description: "Summarize a document with the Kagi Universal Summarizer. Provide exactly one of url or text.",
	}, s.handleSummarize)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "kagi_assistant",
		Description: "Converse with the Kagi Assistant. Subsequent calls with new_conversation=false continue the same conversation.",
	}, s.handleAssistant)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	report, err := s.searchSvc.Run(ctx, args.Queries)
	s.record("kagi_search", strings.Join(args.Queries, "; "), err, time.Since(start))
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(report), nil, nil
}

func (s *Server) handleSummarize(ctx context.Context, _ *mcp.CallToolRequest, args summarizeArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	summary, err := s.sumSvc.Run(ctx, args.URL, args.Text, args.Engine)
	s.record("kagi_summarize", summarizeInput(args), err, time.Since(start))
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(summary), nil, nil
}

func (s *Server) handleAssistant(ctx context.Context, _ *mcp.CallToolRequest, args assistantArgs) (*mcp.CallToolResult, any, error) {
	req := assistant.ExchangeRequest{
		Prompt:          args.Prompt,
		NewConversation: boolOr(args.NewConversation, true),
		Model:           args.Model,
		InternetAccess:  boolOr(args.InternetAccess, true),
		OutputFormat:    assistant.Format(args.OutputFormat),
	}

	start := time.Now()
	reply, err := s.engine.Exchange(ctx, req)
	s.record("kagi_assistant", truncate(args.Prompt, 200), err, time.Since(start))
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(reply), nil, nil
}

// record publishes one invocation event; the history store consumes it off
// the request path.
func (s *Server) record(tool, input string, err error, duration time.Duration) {
	if s.bus == nil {
		return
	}
	inv := history.Invocation{
		Tool:     tool,
		Input:    input,
		Outcome:  history.OutcomeSuccess,
		Duration: duration,
	}
	if err != nil {
		inv.Outcome = history.OutcomeError
		inv.Detail = err.Error()
	}
	s.bus.Publish(history.Topic, inv)
}

// Tool failures surface as in-band error results so the calling model can
// read them and recover; protocol errors are reserved for broken requests.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func summarizeInput(args summarizeArgs) string {
	if args.URL != "" {
		return args.URL
	}
	return fmt.Sprintf("text (%d bytes)", len(args.Text))
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
