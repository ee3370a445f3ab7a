package jsonfix

import "fmt"

// UnrepairableSyntaxError reports input that still fails strict JSON
// parsing after every enabled repair was applied. Offset is the byte
// offset reported by the strict parser, into the corrected text.
type UnrepairableSyntaxError struct {
	Offset int64
	Err    error
}

func (e *UnrepairableSyntaxError) Error() string {
	return fmt.Sprintf("unrepairable JSON syntax at offset %d: %v", e.Offset, e.Err)
}

func (e *UnrepairableSyntaxError) Unwrap() error {
	return e.Err
}

// RepairRejectedError reports that input needed repair while the policy
// was PolicyError. First is the first repair that would have been
// applied; nothing was.
type RepairRejectedError struct {
	First Record
}

func (e *RepairRejectedError) Error() string {
	return fmt.Sprintf("repair rejected at line %d, column %d: %s",
		e.First.Line, e.First.Column, e.First.Message)
}
