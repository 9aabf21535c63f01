package error

import "net/http"

// StorageError marks a failed write against the durable store. Read paths
// degrade to defaults instead of raising this; write paths must surface it
// because silently dropping a mutation would break durability expectations.
type StorageError string

func (err StorageError) Error() string {
	return string(err)
}

func (err StorageError) ErrCode() string {
	return "STORAGE_ERROR"
}

func (err StorageError) StatusCode() int {
	return http.StatusInternalServerError
}
