package validation

import (
	"errors"
	"fmt"
)

// Infrastructure error kinds. These mean the engine could not evaluate a
// candidate; they are never used for invalid input.
var (
	ErrUnsupportedRecordType = errors.New("unsupported record type")
	ErrGatewayFailure        = errors.New("record gateway failure")
	ErrInvalidConfiguration  = errors.New("invalid validation configuration")
)

func gatewayError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrGatewayFailure, op, err)
}

func configError(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
}
