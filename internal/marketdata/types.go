package marketdata

import "fmt"

const (
	CodeValidation     = "VALIDATION"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNetwork        = "NETWORK"
	CodeDecode         = "DECODE"
	CodeNotFound       = "NOT_FOUND"
)

// CodedError is a typed error used for stable API mapping.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

func newError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

// SearchResult describes one instrument returned by symbol search.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Name     string `json:"name"`
}

// QuoteSnapshot pairs the day change figure with the current price for a
// symbol. Both keep the upstream string representation so no float rounding
// creeps in; a null or missing field is normalised to "0" before the
// snapshot leaves this package.
type QuoteSnapshot struct {
	Symbol string `json:"symbol"`
	Change string `json:"change"`
	Price  string `json:"price"`
}
