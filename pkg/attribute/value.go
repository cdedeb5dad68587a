package attribute

import (
	"fmt"
	"math"
)

// ValueType identifies the representation of an attribute value.
type ValueType uint8

const (
	TypeInvalid ValueType = iota
	TypeBool
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeEnum8
	TypeEnum16
	TypeBitmap8
	TypeBitmap16
	TypeBitmap32
	TypeCharString
	TypeOctetString
)

var valueTypeNames = map[ValueType]string{
	TypeBool:        "bool",
	TypeUint8:       "uint8",
	TypeUint16:      "uint16",
	TypeUint32:      "uint32",
	TypeUint64:      "uint64",
	TypeInt8:        "int8",
	TypeInt16:       "int16",
	TypeInt32:       "int32",
	TypeInt64:       "int64",
	TypeEnum8:       "enum8",
	TypeEnum16:      "enum16",
	TypeBitmap8:     "bitmap8",
	TypeBitmap16:    "bitmap16",
	TypeBitmap32:    "bitmap32",
	TypeCharString:  "char_string",
	TypeOctetString: "octet_string",
}

// String returns the name used for the type in YAML configuration.
func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return "invalid"
}

// ParseValueType resolves a type name as written in YAML configuration.
func ParseValueType(name string) (ValueType, error) {
	for t, n := range valueTypeNames {
		if n == name {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("%w: unknown value type %q", ErrInvalidArgument, name)
}

// IsUnsigned reports whether values of this type are stored in Value.Uint.
func (t ValueType) IsUnsigned() bool {
	switch t {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64,
		TypeEnum8, TypeEnum16, TypeBitmap8, TypeBitmap16, TypeBitmap32:
		return true
	}
	return false
}

// IsSigned reports whether values of this type are stored in Value.Int.
func (t ValueType) IsSigned() bool {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return true
	}
	return false
}

// maxUint returns the largest value an unsigned type can hold.
func (t ValueType) maxUint() uint64 {
	switch t {
	case TypeUint8, TypeEnum8, TypeBitmap8:
		return math.MaxUint8
	case TypeUint16, TypeEnum16, TypeBitmap16:
		return math.MaxUint16
	case TypeUint32, TypeBitmap32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// intRange returns the bounds of a signed type.
func (t ValueType) intRange() (int64, int64) {
	switch t {
	case TypeInt8:
		return math.MinInt8, math.MaxInt8
	case TypeInt16:
		return math.MinInt16, math.MaxInt16
	case TypeInt32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

// Value is a typed attribute value. Exactly one payload field is meaningful,
// selected by Type.
type Value struct {
	Type  ValueType `cbor:"1,keyasint"`
	Bool  bool      `cbor:"2,keyasint,omitempty"`
	Uint  uint64    `cbor:"3,keyasint,omitempty"`
	Int   int64     `cbor:"4,keyasint,omitempty"`
	Str   string    `cbor:"5,keyasint,omitempty"`
	Bytes []byte    `cbor:"6,keyasint,omitempty"`
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, Bool: b}
}

// UintValue returns an unsigned value of the given type.
func UintValue(t ValueType, v uint64) Value {
	return Value{Type: t, Uint: v}
}

// IntValue returns a signed value of the given type.
func IntValue(t ValueType, v int64) Value {
	return Value{Type: t, Int: v}
}

// Bitmap32Value returns a 32-bit bitmap value, the representation of FeatureMap.
func Bitmap32Value(v uint32) Value {
	return Value{Type: TypeBitmap32, Uint: uint64(v)}
}

// StringValue returns a character string value.
func StringValue(s string) Value {
	return Value{Type: TypeCharString, Str: s}
}

// OctetStringValue returns an octet string value.
func OctetStringValue(b []byte) Value {
	return Value{Type: TypeOctetString, Bytes: append([]byte(nil), b...)}
}

// Validate checks that the payload fits the declared type.
func (v Value) Validate() error {
	switch {
	case v.Type == TypeInvalid:
		return fmt.Errorf("%w: invalid value type", ErrInvalidArgument)
	case v.Type.IsUnsigned():
		if v.Uint > v.Type.maxUint() {
			return fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, v.Uint, v.Type)
		}
	case v.Type.IsSigned():
		lo, hi := v.Type.intRange()
		if v.Int < lo || v.Int > hi {
			return fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, v.Int, v.Type)
		}
	}
	return nil
}

// Bitmap32 returns the value as a 32-bit bitmap.
// Any unsigned representation that fits 32 bits is accepted.
func (v Value) Bitmap32() (uint32, error) {
	if !v.Type.IsUnsigned() {
		return 0, fmt.Errorf("%w: %s is not a bitmap", ErrTypeMismatch, v.Type)
	}
	if v.Uint > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d does not fit bitmap32", ErrOutOfRange, v.Uint)
	}
	return uint32(v.Uint), nil
}

// AsBool returns the value as a bool.
func (v Value) AsBool() (bool, error) {
	if v.Type != TypeBool {
		return false, fmt.Errorf("%w: %s is not bool", ErrTypeMismatch, v.Type)
	}
	return v.Bool, nil
}

// AsString returns the value as a character string.
func (v Value) AsString() (string, error) {
	if v.Type != TypeCharString {
		return "", fmt.Errorf("%w: %s is not char_string", ErrTypeMismatch, v.Type)
	}
	return v.Str, nil
}

// Equal reports whether two values have the same type and payload.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch {
	case v.Type == TypeBool:
		return v.Bool == o.Bool
	case v.Type.IsUnsigned():
		return v.Uint == o.Uint
	case v.Type.IsSigned():
		return v.Int == o.Int
	case v.Type == TypeCharString:
		return v.Str == o.Str
	case v.Type == TypeOctetString:
		return string(v.Bytes) == string(o.Bytes)
	}
	return true
}

// String formats the value for logs.
func (v Value) String() string {
	switch {
	case v.Type == TypeBool:
		return fmt.Sprintf("%s(%t)", v.Type, v.Bool)
	case v.Type.IsUnsigned():
		return fmt.Sprintf("%s(0x%X)", v.Type, v.Uint)
	case v.Type.IsSigned():
		return fmt.Sprintf("%s(%d)", v.Type, v.Int)
	case v.Type == TypeCharString:
		return fmt.Sprintf("%s(%q)", v.Type, v.Str)
	case v.Type == TypeOctetString:
		return fmt.Sprintf("%s(%X)", v.Type, v.Bytes)
	}
	return "invalid"
}
