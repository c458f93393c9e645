package assistant

import "sync"

// Session holds the identifier of the current provider-side conversation
// thread. It starts empty (a fresh conversation) and is advanced whenever a
// response yields a thread identifier. The zero state means the next exchange
// opens a new thread.
//
// Session is safe for concurrent access, but callers that interleave
// exchanges against one logical conversation still race at the conversation
// level; Engine serializes the whole build-send-parse span for that reason.
type Session struct {
	mu       sync.Mutex
	threadID string
}

// NewSession returns an empty Session.
func NewSession() *Session {
	return &Session{}
}

// Reset clears the stored thread identifier.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threadID = ""
}

// Advance stores id as the current thread identifier.
func (s *Session) Advance(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threadID = id
}

// ThreadID returns the stored identifier and whether one is held.
func (s *Session) ThreadID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID, s.threadID != ""
}
