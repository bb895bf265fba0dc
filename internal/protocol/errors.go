package protocol

import "fmt"

// DecodeError is the whole-decode failure outcome. Individual malformed
// lines never produce one; they are dropped and reported as warnings.
type DecodeError struct {
	Mode   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", e.Mode, e.Reason)
}

func decodeErrf(mode, format string, args ...any) *DecodeError {
	return &DecodeError{Mode: mode, Reason: fmt.Sprintf(format, args...)}
}
