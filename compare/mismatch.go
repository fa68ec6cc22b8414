// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package compare

import "fmt"

// Kind classifies a Mismatch.
type Kind int

const (
	// FieldMismatch means that an enabled check found unequal field values.
	FieldMismatch Kind = iota
	// LengthMismatch means that one input ended before the other.
	LengthMismatch
	// MateRefMismatch means that the mate reference is unmapped in exactly
	// one of the two records.
	MateRefMismatch
)

// EndOfInput is the value reported by a LengthMismatch for the input that
// has run out of records.
const EndOfInput = "<end of input>"

// Mismatch describes the first difference found between two record
// streams.
type Mismatch struct {
	Kind Kind
	// Field is the name of the field that differs, e.g., "qual".
	Field string
	// Record is the 1-based index of the record pair.
	Record int
	// Value1 and Value2 are the renderings of the field in the first and the
	// second input.
	Value1, Value2 string
}

func newMismatch(field string, n int, v1, v2 interface{}) *Mismatch {
	return &Mismatch{
		Kind:   FieldMismatch,
		Field:  field,
		Record: n,
		Value1: fmt.Sprint(v1),
		Value2: fmt.Sprint(v2),
	}
}

// Error implements the error interface. The message does not include the
// two values.
func (m *Mismatch) Error() string {
	switch m.Kind {
	case LengthMismatch:
		longer, shorter := 1, 2
		if m.Value1 == EndOfInput {
			longer, shorter = 2, 1
		}
		return fmt.Sprintf("record #%d: input %d has more records than input %d", m.Record, longer, shorter)
	case MateRefMismatch:
		return fmt.Sprintf("record #%d: only one %s unmapped", m.Record, m.Field)
	default:
		return fmt.Sprintf("values don't match (read record #%d: %s)", m.Record, m.Field)
	}
}
