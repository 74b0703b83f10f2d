package pipeline

// NarrationUnavailableError marks a render with no usable narration
// track. Fatal: without narration there is no timeline to cover.
type NarrationUnavailableError struct {
	Reason string
}

func (e *NarrationUnavailableError) Error() string {
	return "narration unavailable: " + e.Reason
}

// EncodingError marks a failure in the final mux/encode. Fatal; the
// partial output file is deleted before the task reports failed.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return "encoding failed: " + e.Err.Error()
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
