package ai

import "fmt"

// Outcome is the classified result of one Send call. The set of
// implementations is closed: Success, SafetyBlocked, Empty, ModelNotFound,
// RateLimited, HTTPError, NetworkError and Unexpected.
type Outcome interface {
	// Message is the text shown to the user.
	Message() string
	isOutcome()
}

// Success carries the model's reply.
type Success struct {
	Text string
}

// SafetyBlocked means the endpoint refused the prompt.
type SafetyBlocked struct {
	Reason string
}

// Empty means the reply contained no usable text.
type Empty struct{}

// ModelNotFound means the configured model does not exist (HTTP 404).
type ModelNotFound struct {
	Model string
}

// RateLimited means every attempt was answered with HTTP 429.
type RateLimited struct {
	Attempts int
}

// HTTPError is any other non-200 status. It is never retried.
type HTTPError struct {
	StatusCode int
	Body       string
}

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Err error
}

// Unexpected is returned when the retry loop ends without a classification.
type Unexpected struct{}

func (Success) isOutcome()       {}
func (SafetyBlocked) isOutcome() {}
func (Empty) isOutcome()         {}
func (ModelNotFound) isOutcome() {}
func (RateLimited) isOutcome()   {}
func (HTTPError) isOutcome()     {}
func (NetworkError) isOutcome()  {}
func (Unexpected) isOutcome()    {}

func (o Success) Message() string { return o.Text }

func (SafetyBlocked) Message() string {
	return "I apologize, but I cannot respond to that prompt due to safety concerns."
}

func (Empty) Message() string { return "No response generated" }

func (o ModelNotFound) Message() string {
	return fmt.Sprintf("Error: Model '%s' not found or not available. Please check the model name.", o.Model)
}

func (RateLimited) Message() string { return "Rate limit exceeded. Please try again later." }

func (o HTTPError) Message() string {
	return fmt.Sprintf("Error: API returned status code %d. Response: %s", o.StatusCode, o.Body)
}

func (o NetworkError) Message() string {
	if o.Err == nil {
		return "Network error: unknown"
	}
	return "Network error: " + o.Err.Error()
}

func (Unexpected) Message() string { return "An unexpected error occurred" }

// Kind returns a short stable label for logging.
func Kind(o Outcome) string {
	switch o.(type) {
	case Success:
		return "success"
	case SafetyBlocked:
		return "safety_blocked"
	case Empty:
		return "empty"
	case ModelNotFound:
		return "model_not_found"
	case RateLimited:
		return "rate_limited"
	case HTTPError:
		return "http_error"
	case NetworkError:
		return "network_error"
	case Unexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}
