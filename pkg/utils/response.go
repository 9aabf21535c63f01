package utils

// ResponseData is the JSON envelope every REST endpoint returns.
type ResponseData struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded panics with the given error so the Recovery middleware can
// translate it into an HTTP response. Typed errors from pkg/error keep
// their status code; anything else becomes a 500.
func PanicIfNeeded(err any) {
	if err != nil {
		panic(err)
	}
}
