package providers

import (
	"fmt"
	"strings"
)

// ErrorClass buckets provider failures for retry decisions.
type ErrorClass int

const (
	ClassPermanent ErrorClass = iota
	ClassQuota
	ClassRate
	ClassTransient
	ClassContext
)

func (c ErrorClass) String() string {
	switch c {
	case ClassQuota:
		return "quota"
	case ClassRate:
		return "rate_limit"
	case ClassTransient:
		return "transient"
	case ClassContext:
		return "context_too_long"
	default:
		return "permanent"
	}
}

// ServiceError wraps a backend failure with the provider that produced it.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service error: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// FreeTextError signals that the backend ignored the tool schema and answered
// with plain text. Text holds the full response so the caller can still parse it.
type FreeTextError struct {
	Text string
}

func (e *FreeTextError) Error() string {
	return "provider returned free text instead of a tool call"
}

// ClassifyError inspects an error message and assigns a retry class.
// Providers do not agree on error codes, so this matches on the message text.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ClassPermanent
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient_quota") || strings.Contains(msg, "quota"):
		return ClassQuota
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit") || strings.Contains(msg, "too many requests") || strings.Contains(msg, "429"):
		return ClassRate
	case strings.Contains(msg, "context length") || strings.Contains(msg, "context_length") || strings.Contains(msg, "maximum context"):
		return ClassContext
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "connection") ||
		strings.Contains(msg, "temporarily") || strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "500") || strings.Contains(msg, "502") || strings.Contains(msg, "503") || strings.Contains(msg, "504"):
		return ClassTransient
	default:
		return ClassPermanent
	}
}

// Retryable reports whether another attempt is worth making.
func Retryable(err error) bool {
	switch ClassifyError(err) {
	case ClassRate, ClassTransient:
		return true
	default:
		return false
	}
}
