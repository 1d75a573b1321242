package commit

import "errors"

var (
	// ErrEmptyMessage is reported when nothing but whitespace or comments remains.
	ErrEmptyMessage = errors.New("commit message is empty")

	// ErrInvalidUTF8 is reported when the message is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("commit message is not valid UTF-8")
)

// ParseError is returned by Parse when raw input cannot be split into
// header, body and footer.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse commit message: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
