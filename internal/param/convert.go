package param

import (
	"fmt"
	"strconv"

	"github.com/taskworks/jobrun/pkg/conf"
)

// Converter turns the textual value of a flag into the parameter's typed
// value. There is exactly one strategy per kind; the table is closed.
type Converter interface {
	Convert(p Param, raw string) (any, error)
}

// Converters returns the conversion table. defaultExt is handed to the
// config strategy for directory-valued paths.
func Converters(defaultExt string) map[Kind]Converter {
	return map[Kind]Converter{
		KindString: stringConverter{},
		KindInt:    intConverter{},
		KindFloat:  floatConverter{},
		KindBool:   boolConverter{},
		KindEnum:   enumConverter{},
		KindList:   listConverter{},
		KindConfig: configConverter{defaultExt: defaultExt},
	}
}

type stringConverter struct{}

func (stringConverter) Convert(p Param, raw string) (any, error) {
	return convertTyped(p, raw)
}

type intConverter struct{}

func (intConverter) Convert(p Param, raw string) (any, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to understand %q as integer", raw)
	}
	return convertTyped(p, n)
}

type floatConverter struct{}

func (floatConverter) Convert(p Param, raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("unable to understand %q as number", raw)
	}
	return convertTyped(p, f)
}

type boolConverter struct{}

func (boolConverter) Convert(p Param, raw string) (any, error) {
	b, err := ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return convertTyped(p, b)
}

type enumConverter struct{}

func (enumConverter) Convert(p Param, raw string) (any, error) {
	return ConvertEnum(p, raw)
}

type listConverter struct{}

func (listConverter) Convert(p Param, raw string) (any, error) {
	return convertTyped(p, SplitList(raw))
}

// configConverter treats the value as a file (or directory) path and loads
// it through the conf package.
type configConverter struct {
	defaultExt string
}

func (c configConverter) Convert(p Param, raw string) (any, error) {
	ns, err := conf.Load(raw, c.defaultExt)
	if err != nil {
		return nil, err
	}
	return ns, nil
}
