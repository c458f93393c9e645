package assistant

import (
	"fmt"
	"slices"
)

// ResolveModel validates requested against the configured allow-list, or
// computes the model to use when none was requested: the configured default
// if set, else the first allow-list entry. An empty allow-list is a
// configuration error; a requested model outside the list is a validation
// error naming the allowed set.
func ResolveModel(requested string, allowed []string, fallback string) (string, error) {
	if len(allowed) == 0 {
		return "", &ConfigurationError{Reason: "assistant model allow-list is empty"}
	}

	if requested == "" {
		if fallback != "" {
			return fallback, nil
		}
		return allowed[0], nil
	}

	if !slices.Contains(allowed, requested) {
		return "", &ValidationError{
			Reason: fmt.Sprintf("model %q is not allowed (allowed: %v)", requested, allowed),
		}
	}
	return requested, nil
}
