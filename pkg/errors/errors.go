package errors

import "fmt"

// Error codes
const (
	CodeAPIError        = "API_ERROR"
	CodeCache           = "CACHE_ERROR"
	CodeService         = "SERVICE_ERROR"
	CodeFeedUnavailable = "FEED_UNAVAILABLE"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// FeedUnavailableError is returned when every top-level upstream feed failed
// and there is nothing to serve. It carries per-source detail so the handler
// can report which feed broke and how.
type FeedUnavailableError struct {
	*AppError
	Sources map[string]string
}

func NewFeedUnavailableError(sources map[string]string) *FeedUnavailableError {
	ctx := make(map[string]any, len(sources))
	for name, detail := range sources {
		ctx[name] = detail
	}
	return &FeedUnavailableError{
		AppError: &AppError{
			Message:    "all upstream feeds unavailable",
			Code:       CodeFeedUnavailable,
			StatusCode: 502,
			Context:    ctx,
		},
		Sources: sources,
	}
}
