package msgbuild

import "fmt"

// StatusBadRequest is the machine-readable status class carried by every
// descriptor validation error. Validation failures are synchronous and
// never retried; the caller must correct the input.
const StatusBadRequest = 400

// DescriptorError reports a malformed or incomplete message descriptor.
type DescriptorError struct {
	Status int
	Reason string
}

func (de *DescriptorError) Error() string {
	return de.Reason
}

// invalidf builds a 400-class DescriptorError.
func invalidf(format string, args ...any) error {
	return &DescriptorError{
		Status: StatusBadRequest,
		Reason: fmt.Sprintf(format, args...),
	}
}
