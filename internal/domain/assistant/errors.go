package assistant

import "fmt"

// ConfigurationError reports a missing or unusable piece of configuration,
// such as an empty model allow-list.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ValidationError reports caller input rejected before any request is sent:
// an empty prompt, or a model outside the allow-list.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

// ParseError reports that the mandatory message document could not be located
// in the raw response, or that its JSON body failed to parse.
type ParseError struct {
	Marker string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error [%s]: %v", e.Marker, e.Err)
	}
	return fmt.Sprintf("parse error [%s]: document not found in response", e.Marker)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ResponseStateError reports a well-formed message document that does not
// carry a usable reply: its state is not "done", or the reply field is absent.
type ResponseStateError struct {
	State        string
	MissingReply bool
}

func (e *ResponseStateError) Error() string {
	if e.MissingReply {
		return fmt.Sprintf("response state error: state %q carries no reply", e.State)
	}
	return fmt.Sprintf("response state error: unexpected state %q", e.State)
}
