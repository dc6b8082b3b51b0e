package logical

import (
	"fmt"
	"strings"

	"github.com/cube2222/lazyplan"
)

type Field struct {
	Name string
	Type lazyplan.Type
}

func NewField(name string, t lazyplan.Type) Field {
	return Field{Name: name, Type: t}
}

// Schema is the ordered list of columns a plan node produces.
type Schema struct {
	Fields []Field
}

func NewSchema(fields ...Field) Schema {
	return Schema{Fields: fields}
}

func (s Schema) Len() int {
	return len(s.Fields)
}

func (s Schema) Index(name string) int {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

func (s Schema) Has(name string) bool {
	return s.Index(name) != -1
}

func (s Schema) Field(name string) (Field, bool) {
	i := s.Index(name)
	if i == -1 {
		return Field{}, false
	}
	return s.Fields[i], true
}

func (s Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i := range s.Fields {
		out[i] = s.Fields[i].Name
	}
	return out
}

func (s Schema) String() string {
	fields := make([]string, len(s.Fields))
	for i, field := range s.Fields {
		fields[i] = fmt.Sprintf("%s: %s", field.Name, field.Type)
	}
	return fmt.Sprintf("[%s]", strings.Join(fields, ", "))
}
