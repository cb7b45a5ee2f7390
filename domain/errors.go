package domain

import "fmt"

// ConfigurationError reports an absent or invalid configuration value. It is
// always raised before any pipeline work starts.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("configuration: %s is missing or invalid", e.Key)
	}
	return fmt.Sprintf("configuration: %s: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// AcquisitionError reports a failure to obtain segments from the content
// source. Fatal for the run; no partial output is produced.
type AcquisitionError struct {
	ThreadID string
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquire thread %s: %v", e.ThreadID, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// SynthesisError reports a per-segment speech synthesis failure after the
// retry budget is exhausted.
type SynthesisError struct {
	Ordinal  int
	Provider string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize segment %d via %s: %v", e.Ordinal, e.Provider, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// RenderError reports a per-segment visual render failure after the retry
// budget is exhausted.
type RenderError struct {
	Ordinal  int
	Provider string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render segment %d via %s: %v", e.Ordinal, e.Provider, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// CompositionError reports a failure while assembling or encoding the final
// video. Never retried; partial output files are removed.
type CompositionError struct {
	Err error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("compose video: %v", e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }
