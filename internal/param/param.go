// Package param derives command-line parameter descriptors from a task
// function's parameter struct using reflection.
//
// Each exported struct field becomes one parameter. The field's type picks
// its conversion strategy from a closed kind set; fields may carry `arg`,
// `usage` and `default` tags:
//
//	type Params struct {
//	    Name     string          `arg:"name" usage:"display name"`
//	    Params   *conf.Namespace `arg:"params" usage:"config file"`
//	    Boolean  bool            `arg:"boolean" default:"false"`
//	}
package param

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/taskworks/jobrun/pkg/conf"
)

// Kind classifies a parameter type into its conversion strategy.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindEnum
	KindConfig
	KindList
)

// String returns the kind name used in help output and errors.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindConfig:
		return "config"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Enum is implemented by named string types that restrict their value to a
// fixed member set. The parser rejects any value not in EnumValues.
type Enum interface {
	EnumValues() []string
}

var (
	// ErrUnsupportedType is returned for a field whose type is outside
	// the supported kind set.
	ErrUnsupportedType = errors.New("unsupported parameter type")

	// ErrMissingType is returned for a field declared as an interface:
	// parameters must commit to a concrete type.
	ErrMissingType = errors.New("parameter has no concrete type")

	// ErrConfigDefault is returned when a config-namespace parameter
	// carries a default value. There is no textual default for a
	// structured object, so these parameters are always required.
	ErrConfigDefault = errors.New("config parameter cannot be optional")
)

var (
	enumType      = reflect.TypeOf((*Enum)(nil)).Elem()
	namespaceType = reflect.TypeOf((*conf.Namespace)(nil))
	stringType    = reflect.TypeOf("")
)

// Param describes one parameter of a task function.
type Param struct {
	Name     string       // parameter name, snake_case
	Flag     string       // CLI flag name, hyphenated, without dashes
	Usage    string       // help text from the usage tag
	Kind     Kind         // conversion strategy
	Type     reflect.Type // declared field type
	Required bool         // no default declared
	Default  any          // typed default when optional
	Enum     []string     // member values for KindEnum
	Index    int          // field index in the parameter struct
}

// Signature describes the full parameter set of a task function.
type Signature struct {
	Struct reflect.Type // parameter struct type, nil for niladic tasks
	Params []Param
}

// ParamNamed returns the descriptor for the given parameter name.
func (s *Signature) ParamNamed(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Inspect derives a signature from a parameter struct type. All
// configuration errors (unsupported types, defaults on config parameters)
// surface here, before any input is read.
func Inspect(structType reflect.Type) (*Signature, error) {
	if structType == nil {
		return &Signature{}, nil
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("parameters must be declared as a struct, got %s", structType)
	}

	sig := &Signature{Struct: structType}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get("arg")
		if name == "-" {
			continue
		}
		if name == "" {
			name = snakeCase(field.Name)
		}

		kind, enumVals, err := classify(field.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}

		p := Param{
			Name:     name,
			Flag:     strings.ReplaceAll(name, "_", "-"),
			Usage:    field.Tag.Get("usage"),
			Kind:     kind,
			Type:     field.Type,
			Required: true,
			Enum:     enumVals,
			Index:    i,
		}

		if def, ok := field.Tag.Lookup("default"); ok {
			if kind == KindConfig {
				return nil, fmt.Errorf("parameter %q: %w", name, ErrConfigDefault)
			}
			v, err := parseDefault(p, def)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: invalid default %q: %v", name, def, err)
			}
			p.Required = false
			p.Default = v
		}

		sig.Params = append(sig.Params, p)
	}
	return sig, nil
}

// classify maps a field type onto the closed kind set.
func classify(t reflect.Type) (Kind, []string, error) {
	if t == namespaceType {
		return KindConfig, nil, nil
	}
	if t.Implements(enumType) && t.Kind() == reflect.String {
		vals := reflect.Zero(t).Interface().(Enum).EnumValues()
		return KindEnum, vals, nil
	}

	switch t.Kind() {
	case reflect.String:
		return KindString, nil, nil
	case reflect.Int:
		return KindInt, nil, nil
	case reflect.Float64:
		return KindFloat, nil, nil
	case reflect.Bool:
		return KindBool, nil, nil
	case reflect.Slice:
		// Element must be plain string: a named string element would only
		// fail later, when the parsed []string cannot convert to it.
		if t.Elem() == stringType {
			return KindList, nil, nil
		}
		return 0, nil, fmt.Errorf("%w: %s (list parameters must be []string)", ErrUnsupportedType, t)
	case reflect.Interface:
		return 0, nil, fmt.Errorf("%w: %s", ErrMissingType, t)
	default:
		return 0, nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

// parseDefault converts a default tag into the parameter's typed value
// through the same strategy the flag parser uses. Config kinds never reach
// here: they are rejected before defaults are parsed.
func parseDefault(p Param, raw string) (any, error) {
	return Converters("yml")[p.Kind].Convert(p, raw)
}

// convertTyped adapts a plain value to the field's named type, so defaults
// land with the exact declared type (e.g. a named string type).
func convertTyped(p Param, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.Type().ConvertibleTo(p.Type) {
		return nil, fmt.Errorf("%T is not convertible to %s", v, p.Type)
	}
	return rv.Convert(p.Type).Interface(), nil
}

// ParseBool converts a textual boolean with lenient, case-insensitive
// truthy/falsy sets.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "yes", "true", "t", "y", "1", "-1":
		return true, nil
	case "no", "false", "f", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("unable to understand %q as boolean", raw)
	}
}

// SplitList splits a comma-delimited value, trimming whitespace around each
// element. "lala, pepe" yields two elements.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// ConvertEnum validates raw against the enum member set and returns it as
// the parameter's named type.
func ConvertEnum(p Param, raw string) (any, error) {
	for _, v := range p.Enum {
		if raw == v {
			return convertTyped(p, raw)
		}
	}
	return nil, fmt.Errorf("value %q is not one of %s", raw, strings.Join(p.Enum, ", "))
}

// snakeCase converts an exported field name (FromPath) to its parameter
// name (from_path).
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
