package models

import "fmt"

// RowError reports one failed row of a bulk upload. Row numbers are
// spreadsheet positions: data starts at row 2 because row 1 is the header,
// so input index i reports as i+2.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

const ErrMissingRequiredFields = "Missing required fields"

// RowNumber converts a 0-based input index to the user-facing row number.
func RowNumber(index int) int {
	return index + 2
}

// BulkResult is the partial-failure contract shared by the bulk upload
// endpoints: processing never aborts on a bad row, callers inspect the
// errors list rather than the HTTP status.
type BulkResult[T any] struct {
	SuccessCount int        `json:"successCount"`
	Errors       []RowError `json:"errors"`
	Created      []*T       `json:"created"`
}

func (r *BulkResult[T]) AddRowError(index int, err error) {
	r.Errors = append(r.Errors, RowError{Row: RowNumber(index), Error: err.Error()})
}

func (r *BulkResult[T]) AddRowErrorMessage(index int, msg string) {
	r.Errors = append(r.Errors, RowError{Row: RowNumber(index), Error: msg})
}

func (r *BulkResult[T]) AddCreated(record *T) {
	r.SuccessCount++
	r.Created = append(r.Created, record)
}

func (r *BulkResult[T]) Summary() string {
	return fmt.Sprintf("%d created, %d failed", r.SuccessCount, len(r.Errors))
}
