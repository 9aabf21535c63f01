package error

import "net/http"

// ValidationError marks a structurally invalid payload (missing required
// fields, out-of-range values). Distinct from ParseError so the client can
// tell "bad JSON" apart from "valid JSON, wrong shape".
type ValidationError string

func (err ValidationError) Error() string {
	return string(err)
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusBadRequest
}
