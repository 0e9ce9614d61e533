package domain

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a missing or invalid setting detected before any I/O.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Setting == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %s", e.Setting, e.Reason)
}

// ProviderHTTPError is returned when the headline provider answers with a non-2xx status.
type ProviderHTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ProviderHTTPError) Error() string {
	msg := fmt.Sprintf("headline provider returned %s", e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// ProviderStatusError is returned when the provider answers 2xx but reports a status other than "ok".
type ProviderStatusError struct {
	Status  string
	Code    string
	Message string
}

func (e *ProviderStatusError) Error() string {
	msg := fmt.Sprintf("headline provider returned unexpected status %q", e.Status)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}
