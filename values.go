package lazyplan

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Value is a scalar literal. Only the field matching Type is meaningful.
type Value struct {
	Type    Type
	Int     int
	Float   float64
	Boolean bool
	Str     string
	Time    time.Time
}

func NewNull() Value {
	return Value{
		Type: Type{TypeID: TypeIDNull},
	}
}

func NewInt(value int) Value {
	return Value{
		Type: Type{TypeID: TypeIDInt},
		Int:  value,
	}
}

func NewFloat(value float64) Value {
	return Value{
		Type:  Type{TypeID: TypeIDFloat},
		Float: value,
	}
}

func NewBoolean(value bool) Value {
	return Value{
		Type:    Type{TypeID: TypeIDBoolean},
		Boolean: value,
	}
}

func NewString(value string) Value {
	return Value{
		Type: Type{TypeID: TypeIDString},
		Str:  value,
	}
}

func NewTime(value time.Time) Value {
	return Value{
		Type: Type{TypeID: TypeIDTime},
		Time: value,
	}
}

func (value Value) Equal(other Value) bool {
	if value.Type.TypeID != other.Type.TypeID {
		return false
	}
	switch value.Type.TypeID {
	case TypeIDNull:
		return true
	case TypeIDInt:
		return value.Int == other.Int
	case TypeIDFloat:
		return value.Float == other.Float
	case TypeIDBoolean:
		return value.Boolean == other.Boolean
	case TypeIDString:
		return value.Str == other.Str
	case TypeIDTime:
		return value.Time.Equal(other.Time)
	}
	return false
}

func (value Value) String() string {
	switch value.Type.TypeID {
	case TypeIDNull:
		return "<null>"
	case TypeIDInt:
		return fmt.Sprint(value.Int)
	case TypeIDFloat:
		return fmt.Sprint(value.Float)
	case TypeIDBoolean:
		return fmt.Sprint(value.Boolean)
	case TypeIDString:
		return strconv.Quote(value.Str)
	case TypeIDTime:
		return value.Time.Format(time.RFC3339Nano)
	}
	panic("impossible, type switch bug")
}

// ToRaw returns the Go representation of the value, the way YAML or JSON encoders expect it.
func (value Value) ToRaw() interface{} {
	switch value.Type.TypeID {
	case TypeIDNull:
		return nil
	case TypeIDInt:
		return value.Int
	case TypeIDFloat:
		return value.Float
	case TypeIDBoolean:
		return value.Boolean
	case TypeIDString:
		return value.Str
	case TypeIDTime:
		return value.Time
	}
	panic("impossible, type switch bug")
}

// NormalizeType brings various primitive types into the value representation.
func NormalizeType(value interface{}) (Value, error) {
	switch value := value.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBoolean(value), nil
	case int:
		return NewInt(value), nil
	case int8:
		return NewInt(int(value)), nil
	case int16:
		return NewInt(int(value)), nil
	case int32:
		return NewInt(int(value)), nil
	case int64:
		return NewInt(int(value)), nil
	case uint8:
		return NewInt(int(value)), nil
	case uint16:
		return NewInt(int(value)), nil
	case uint32:
		return NewInt(int(value)), nil
	case uint64:
		return NewInt(int(value)), nil
	case float32:
		return NewFloat(float64(value)), nil
	case float64:
		return NewFloat(value), nil
	case string:
		return NewString(value), nil
	case []byte:
		return NewString(string(value)), nil
	case time.Time:
		return NewTime(value), nil
	}
	return Value{}, errors.Errorf("unsupported literal of type %T", value)
}
