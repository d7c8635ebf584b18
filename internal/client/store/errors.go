package store

import "fmt"

// ConnectionError reports a transport failure, an unexpected server
// response or a response that could not be decoded.
type ConnectionError struct {
	// Op is the store operation: "list", "create", "update" or "delete".
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
