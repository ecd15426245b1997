package handler

import (
	"unicode"
	"unicode/utf8"
)

// sentence capitalizes an error message for a response body.
func sentence(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
