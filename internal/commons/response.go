// Package commons carries the cross-cutting pieces shared by every ledger
// service: the response envelope handed to callers and the repository-level
// error sentinels that adapters translate driver failures into.
package commons

// Response is the uniform envelope every service operation returns. On
// success Data carries the payload; on failure Errors lists what went wrong
// next to a caller-facing message. Receipts, account views and summaries all
// travel in this shape.
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}
