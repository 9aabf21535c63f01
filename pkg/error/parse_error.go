package error

import "net/http"

// ParseError marks input that is not even well-formed JSON.
type ParseError string

func (err ParseError) Error() string {
	return string(err)
}

func (err ParseError) ErrCode() string {
	return "PARSE_ERROR"
}

func (err ParseError) StatusCode() int {
	return http.StatusBadRequest
}
