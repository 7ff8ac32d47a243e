package errortypes

// Defines numeric codes for well-known errors. Hosts see these codes in bid
// response ext errors, so the values are pinned to the upstream framework enum
// and must not be renumbered.
const (
	UnknownErrorCode             = 999
	TimeoutErrorCode             = 1
	BadInputErrorCode            = 2
	BadServerResponseErrorCode   = 4
	FailedToRequestBidsErrorCode = 5
	FailedToMarshalErrorCode     = 13
	FailedToUnmarshalErrorCode   = 14
)

// Defines numeric codes for well-known warnings.
const (
	UnknownWarningCode            = 10999
	BidderLevelWarningCode        = 10001
	InvalidBidResponseWarningCode = 10002
)

// Coder provides an error or warning code with severity.
type Coder interface {
	Code() int
	Severity() Severity
}

// ReadCode returns the error or warning code, or UnknownErrorCode if unavailable.
func ReadCode(err error) int {
	if e, ok := err.(Coder); ok {
		return e.Code()
	}
	return UnknownErrorCode
}
