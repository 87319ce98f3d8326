package core

import (
	"fmt"
	"strconv"
	"time"
)

// FieldType represents the type of a field value
type FieldType uint8

const (
	StringType FieldType = iota
	IntType
	Int64Type
	Float64Type
	BoolType
	TimeType
	DurationType
	ErrorType
	AnyType
)

// Field represents a key-value pair attached to a captured record.
// Values are encoded into fixed-size slots (Num, Fp) wherever possible
// so common types never escape to the heap; Any is the fallback slot
// for arbitrary values.
type Field struct {
	Key  string
	Type FieldType
	Num  int64
	Fp   float64
	Str  string
	Any  interface{}
}

// StringValue returns the deterministic string rendering of the field's
// value. Arbitrary values carried in Any, including values of an
// unrecognized FieldType, fall back to fmt's %v rendering; rendering
// never fails.
func (f Field) StringValue() string {
	switch f.Type {
	case StringType, ErrorType:
		return f.Str
	case IntType, Int64Type:
		return strconv.FormatInt(f.Num, 10)
	case Float64Type:
		return strconv.FormatFloat(f.Fp, 'f', -1, 64)
	case BoolType:
		return strconv.FormatBool(f.Num == 1)
	case TimeType:
		return time.Unix(0, f.Num).UTC().Format(time.RFC3339)
	case DurationType:
		return time.Duration(f.Num).String()
	default:
		return fmt.Sprintf("%v", f.Any)
	}
}
