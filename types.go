package lazyplan

import (
	"strings"

	"github.com/pkg/errors"
)

type TypeID int

const (
	TypeIDNull TypeID = iota
	TypeIDInt
	TypeIDFloat
	TypeIDBoolean
	TypeIDString
	TypeIDTime
	TypeIDAny
)

type Type struct {
	TypeID TypeID
}

var (
	Null    Type = Type{TypeID: TypeIDNull}
	Int     Type = Type{TypeID: TypeIDInt}
	Float   Type = Type{TypeID: TypeIDFloat}
	Boolean Type = Type{TypeID: TypeIDBoolean}
	String  Type = Type{TypeID: TypeIDString}
	Time    Type = Type{TypeID: TypeIDTime}
	Any     Type = Type{TypeID: TypeIDAny}
)

func (t Type) String() string {
	switch t.TypeID {
	case TypeIDNull:
		return "NULL"
	case TypeIDInt:
		return "Int"
	case TypeIDFloat:
		return "Float"
	case TypeIDBoolean:
		return "Boolean"
	case TypeIDString:
		return "String"
	case TypeIDTime:
		return "Time"
	case TypeIDAny:
		return "Any"
	}
	panic("impossible, type switch bug")
}

// IsNumeric reports whether arithmetic is defined on the type.
func (t Type) IsNumeric() bool {
	return t.TypeID == TypeIDInt || t.TypeID == TypeIDFloat
}

// ParseType is the inverse of Type.String, case-insensitive.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "null":
		return Null, nil
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "boolean", "bool":
		return Boolean, nil
	case "string":
		return String, nil
	case "time":
		return Time, nil
	case "any":
		return Any, nil
	}
	return Type{}, errors.Errorf("unknown type: %s", name)
}

// TypeSum returns the type able to hold values of both arguments.
// Int and Float widen to Float, Null is absorbed, anything else mixes into Any.
func TypeSum(t1, t2 Type) Type {
	if t1.TypeID == t2.TypeID {
		return t1
	}
	if t1.TypeID == TypeIDNull {
		return t2
	}
	if t2.TypeID == TypeIDNull {
		return t1
	}
	if t1.IsNumeric() && t2.IsNumeric() {
		return Float
	}
	return Any
}
