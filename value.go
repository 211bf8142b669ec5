package encryptedattr

import "fmt"

// Value is an option value that is either a literal or derived from the
// record at resolve time. The resolver evaluates every option value through
// this variant uniformly; no option is special-cased as dynamic.
type Value struct {
	kind    valueKind
	literal any
	fn      func(Record) (any, error)
	attr    string
}

type valueKind uint8

const (
	valueLiteral valueKind = iota
	valueFunc
	valueAttribute
)

// Literal wraps a plain value. Resolution returns it unchanged.
func Literal(v any) Value {
	return Value{kind: valueLiteral, literal: v}
}

// FromRecord wraps a function invoked with the record at resolve time.
// Errors from fn propagate to the encrypt or decrypt call unmodified.
func FromRecord(fn func(Record) (any, error)) Value {
	return Value{kind: valueFunc, fn: fn}
}

// FromAttribute reads the named attribute from the record at resolve time.
// A missing attribute (or a nil record) fails the call with
// ErrAttributeNotFound; that is a caller contract violation, not a condition
// the resolver recovers from.
func FromAttribute(name string) Value {
	return Value{kind: valueAttribute, attr: name}
}

// resolve evaluates the variant against rec.
func (v Value) resolve(rec Record) (any, error) {
	switch v.kind {
	case valueFunc:
		if v.fn == nil {
			return nil, nil
		}
		return v.fn(rec)
	case valueAttribute:
		if rec == nil {
			return nil, fmt.Errorf("%w: no record to read %q from", ErrAttributeNotFound, v.attr)
		}
		val, err := rec.Attribute(v.attr)
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, fmt.Errorf("%w: %q", ErrAttributeNotFound, v.attr)
		}
		return val, nil
	default:
		return v.literal, nil
	}
}

// literalValue reports the wrapped literal when the variant is static.
// Registration uses this to compute storage names without a record.
func (v Value) literalValue() (any, bool) {
	if v.kind == valueLiteral {
		return v.literal, true
	}
	return nil, false
}

// evalOption resolves v against rec when it is a Value; plain literals pass
// through unchanged.
func evalOption(v any, rec Record) (any, error) {
	if val, ok := v.(Value); ok {
		return val.resolve(rec)
	}
	return v, nil
}
