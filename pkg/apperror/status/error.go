package status

// ErrorCode is a numeric code to classify API errors in a stable way
type ErrorCode int

// Reserved ranges by domain:
//   0-999:     client/validation errors
//   1000-1999: verification internals
//   2000-2999: cache internals

const (
	BadRequestBase    ErrorCode = 0
	InternalErrorBase ErrorCode = 1000
	CacheErrorBase    ErrorCode = 2000
)

// Client/validation errors start at 0
const (
	VerifyInvalidRequestBody ErrorCode = BadRequestBase + iota // 0
	VerifyMissingParams                                        // 1
	VerifyUnknownProvider                                      // 2
)

// Verification internal errors start at 1000
const (
	VerifyInternal ErrorCode = InternalErrorBase + iota // 1000
)

// Cache internal errors start at 2000
const (
	CacheInternal ErrorCode = CacheErrorBase + iota // 2000
	CachePurgeFailed                                // 2001
	CacheStatsFailed                                // 2002
	CacheInvalidEntryID                             // 2003
	CacheEntryNotFound                              // 2004
)

// Deprecated: prefer domain-specific internal codes above
const (
	ErrorCodeInternal ErrorCode = 9000
)

// CodedError represents an error with an associated ErrorCode
type CodedError interface {
	error
	ErrorCode() ErrorCode
}

type codedError struct {
	code ErrorCode
	err  error
}

func (e codedError) Error() string        { return e.err.Error() }
func (e codedError) Unwrap() error        { return e.err }
func (e codedError) ErrorCode() ErrorCode { return e.code }

// New creates a new CodedError with the given code and underlying error
func New(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return codedError{code: code, err: err}
}
