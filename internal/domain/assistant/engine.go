// Package assistant implements the conversational exchange engine behind the
// kagi_assistant tool: conversation continuity across calls, provider payload
// construction, extraction of the JSON documents embedded in Kagi's prefixed
// streaming response, and conversion of the rich-markup reply into the
// requested output representation.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Caller issues one assistant request and returns the raw response body.
// Implemented by the kagi transport client.
type Caller interface {
	Assistant(ctx context.Context, body []byte) (string, error)
}

// ExchangeRequest is one caller-initiated conversational turn.
type ExchangeRequest struct {
	Prompt          string
	NewConversation bool
	Model           string
	InternetAccess  bool
	OutputFormat    Format
}

// Engine runs exchanges against a single logical conversation. The session is
// an explicit injected object rather than process-global state, and the whole
// build-send-parse-update span of each exchange runs under one lock so
// concurrent callers cannot interleave payload construction with a stale or
// clobbered thread identifier.
type Engine struct {
	mu      sync.Mutex
	client  Caller
	session *Session

	models       []string
	defaultModel string

	log *slog.Logger
}

// NewEngine creates an Engine with a fresh session. models is the configured
// allow-list; defaultModel may be empty, in which case the first allow-list
// entry is the default.
func NewEngine(client Caller, models []string, defaultModel string, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		client:       client,
		session:      NewSession(),
		models:       models,
		defaultModel: defaultModel,
		log:          log,
	}
}

// Session exposes the engine's conversation session, mostly for tests and
// diagnostics.
func (e *Engine) Session() *Session {
	return e.session
}

// Exchange performs one conversational turn: validate, resolve the model,
// build the payload from session state, send, parse the embedded documents,
// and format the reply. Every failure terminates the exchange; no partial
// result is produced.
func (e *Engine) Exchange(ctx context.Context, req ExchangeRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", &ValidationError{Reason: "prompt must not be empty"}
	}

	model, err := ResolveModel(req.Model, e.models, e.defaultModel)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if req.NewConversation {
		e.session.Reset()
	}
	threadID, _ := e.session.ThreadID()

	body, err := json.Marshal(buildPayload(req.Prompt, model, req.InternetAccess, threadID))
	if err != nil {
		return "", fmt.Errorf("assistant: encode payload: %w", err)
	}

	raw, err := e.client.Assistant(ctx, body)
	if err != nil {
		return "", err
	}

	// The thread document is best-effort: without it the reply is still
	// usable, only future continuation silently degrades.
	if doc, ok := extractMarkedJSON(raw, markerThread); ok {
		var thread threadDocument
		if jerr := json.Unmarshal([]byte(doc), &thread); jerr != nil {
			e.log.Warn("thread document unparseable, continuation not refreshed", "error", jerr)
		} else if thread.ID != "" {
			e.session.Advance(thread.ID)
		}
	}

	doc, ok := extractMarkedJSON(raw, markerMessage)
	if !ok {
		return "", &ParseError{Marker: markerMessage}
	}
	var msg messageDocument
	if jerr := json.Unmarshal([]byte(doc), &msg); jerr != nil {
		return "", &ParseError{Marker: markerMessage, Err: jerr}
	}
	if msg.Reply == nil {
		return "", &ResponseStateError{State: msg.State, MissingReply: true}
	}
	if msg.State != "done" {
		return "", &ResponseStateError{State: msg.State}
	}

	return FormatReply(*msg.Reply, req.OutputFormat), nil
}
