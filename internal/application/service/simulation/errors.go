package simulation

import (
	"errors"
	"fmt"

	"main/internal/domain/valueobject"
)

// Input validation failures. Detected before any lookup, no side effect.
var (
	ErrInvalidAmount = errors.New("invested amount must be positive")
	ErrInvalidTerm   = errors.New("term must be between 1 and 600 months")
)

// InvalidFamilyError reports an unparsable product family name.
type InvalidFamilyError struct {
	Name string
}

func (e *InvalidFamilyError) Error() string {
	return fmt.Sprintf("invalid product family: %s", e.Name)
}

// NoActiveProductError reports a recognized family with zero active
// offerings.
type NoActiveProductError struct {
	Family string
}

func (e *NoActiveProductError) Error() string {
	return fmt.Sprintf("no active product available for family %s", e.Family)
}

// NoEligibleProductError reports that active offerings exist but none
// admits the requested amount and term.
type NoEligibleProductError struct {
	Amount     valueobject.Money
	TermMonths int
}

func (e *NoEligibleProductError) Error() string {
	return fmt.Sprintf("no product admits amount %s over %d months: minimum amount or term constraints not met",
		e.Amount, e.TermMonths)
}

// IsDomainFailure reports whether the error is one of the typed simulation
// failures, as opposed to an infrastructure error.
func IsDomainFailure(err error) bool {
	var invalidFamily *InvalidFamilyError
	var noActive *NoActiveProductError
	var noEligible *NoEligibleProductError
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidTerm) ||
		errors.As(err, &invalidFamily) ||
		errors.As(err, &noActive) ||
		errors.As(err, &noEligible)
}
