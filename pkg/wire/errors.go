package wire

import (
	"errors"
	"fmt"
)

// ErrFormatMismatch reports a payload whose Go type does not match the
// strategy's expected transport representation (e.g. raw bytes handed to the
// JSON strategy). The transport closes the connection on this class of error.
var ErrFormatMismatch = errors.New("format mismatch")

// ErrDataConversion reports a payload that was framed correctly but whose
// inner data could not be converted (e.g. a Protobuf data_json field that is
// not valid JSON).
var ErrDataConversion = errors.New("data conversion failed")

// DecodeError reports malformed bytes or fields for a given wire format.
// It is distinguishable from ErrFormatMismatch so callers can log the two
// classes differently; both end in the transport closing the connection.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s decode error: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
