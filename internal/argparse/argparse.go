// Package argparse builds a command-line flag parser from a task signature
// and resolves argument sets from raw tokens or pre-supplied values.
//
// Every parameter becomes exactly one flag, named by hyphenating the
// parameter name (from_path -> --from-path). Conversion is delegated to the
// per-kind strategy table in the param package.
package argparse

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/spf13/pflag"

	"github.com/taskworks/jobrun/internal/param"
	"github.com/taskworks/jobrun/pkg/conf"
)

// DebugFlag is the reserved diagnostic-mode flag. It is accepted by every
// derived parser and stripped from the resolved argument set.
const DebugFlag = "debug"

// flagValue adapts a parameter's conversion strategy to pflag.Value, so
// conversion failures surface at parse time naming the offending flag.
type flagValue struct {
	p    param.Param
	conv param.Converter
	val  any
	set  bool
}

func (v *flagValue) String() string { return "" }

func (v *flagValue) Type() string { return v.p.Kind.String() }

func (v *flagValue) Set(raw string) error {
	converted, err := v.conv.Convert(v.p, raw)
	if err != nil {
		return err
	}
	v.val = converted
	v.set = true
	return nil
}

// Parser holds a flag set derived from one task signature.
type Parser struct {
	name   string
	sig    *param.Signature
	extras []string
	fs     *pflag.FlagSet
	values map[string]*flagValue
	debug  bool
}

// New builds a parser for the signature. extras are flag names (without
// dashes) the parser accepts but strips from the result; use them for
// tokens the caller consumes for other purposes. defaultExt selects the
// file to load when a config parameter points at a directory.
func New(name string, sig *param.Signature, extras []string, defaultExt string) *Parser {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard) // errors propagate; help is rendered by Help
	fs.Usage = func() {}

	p := &Parser{
		name:   name,
		sig:    sig,
		extras: extras,
		fs:     fs,
		values: make(map[string]*flagValue, len(sig.Params)),
	}

	convs := param.Converters(defaultExt)
	for _, pr := range sig.Params {
		v := &flagValue{p: pr, conv: convs[pr.Kind]}
		fs.Var(v, pr.Flag, pr.Usage)
		p.values[pr.Name] = v
	}
	for _, e := range extras {
		fs.String(strings.TrimLeft(e, "-"), "", "consumed by the caller")
	}
	fs.BoolVar(&p.debug, DebugFlag, false, "enable diagnostic logging")
	return p
}

// Parse converts the raw tokens into the resolved argument set. Extra flags
// and the debug flag are stripped; the second result reports whether debug
// mode was requested.
func (p *Parser) Parse(args []string) (map[string]any, bool, error) {
	if err := p.fs.Parse(args); err != nil {
		return nil, false, err
	}

	resolved := make(map[string]any, len(p.sig.Params))
	var missing []string
	for _, pr := range p.sig.Params {
		v := p.values[pr.Name]
		if v.set {
			resolved[pr.Name] = v.val
			continue
		}
		if pr.Required {
			missing = append(missing, "--"+pr.Flag)
			continue
		}
		resolved[pr.Name] = pr.Default
	}
	if len(missing) > 0 {
		return nil, false, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return resolved, p.debug, nil
}

// Help renders the derived flags grouped into required and optional
// sections. The grouping is presentation only.
func (p *Parser) Help() string {
	var required, optional []param.Param
	for _, pr := range p.sig.Params {
		if pr.Required {
			required = append(required, pr)
		} else {
			optional = append(optional, pr)
		}
	}

	width := len(DebugFlag)
	for _, pr := range p.sig.Params {
		if l := len(pr.Flag) + len(pr.Kind.String()) + 1; l > width {
			width = l
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [flags]\n", p.name)
	if len(required) > 0 {
		b.WriteString("\nRequired flags:\n")
		for _, pr := range required {
			writeFlagLine(&b, pr, width)
		}
	}
	b.WriteString("\nOptional flags:\n")
	for _, pr := range optional {
		writeFlagLine(&b, pr, width)
	}
	fmt.Fprintf(&b, "  --%-*s %s\n", width, DebugFlag, "enable diagnostic logging")
	return b.String()
}

func writeFlagLine(b *strings.Builder, pr param.Param, width int) {
	head := fmt.Sprintf("%s %s", pr.Flag, pr.Kind.String())
	usage := pr.Usage
	switch pr.Kind {
	case param.KindEnum:
		usage = appendClause(usage, "one of: "+strings.Join(pr.Enum, ", "))
	case param.KindConfig:
		usage = appendClause(usage, "path to a YAML or JSON file")
	case param.KindList:
		usage = appendClause(usage, "comma-separated")
	}
	if !pr.Required {
		usage = appendClause(usage, fmt.Sprintf("default: %v", pr.Default))
	}
	fmt.Fprintf(b, "  --%-*s %s\n", width, head, usage)
}

func appendClause(usage, clause string) string {
	if usage == "" {
		return "(" + clause + ")"
	}
	return usage + " (" + clause + ")"
}

// ResolveValues validates a pre-supplied value map against the signature
// and returns the resolved argument set. A value matches when its runtime
// type equals the declared type; a string supplied for a config parameter
// is loaded as a file path, and an int supplied for a float parameter is
// widened. Anything else is a mismatch naming both types. Keys not in the
// signature are ignored.
func ResolveValues(sig *param.Signature, values map[string]any, defaultExt string) (map[string]any, error) {
	resolved := make(map[string]any, len(sig.Params))
	for _, pr := range sig.Params {
		v, ok := values[pr.Name]
		if !ok {
			if pr.Required {
				return nil, fmt.Errorf("parameter %q is not optional", pr.Name)
			}
			resolved[pr.Name] = pr.Default
			continue
		}

		rt := reflect.TypeOf(v)
		switch {
		case rt == pr.Type:
			resolved[pr.Name] = v
		case pr.Kind == param.KindConfig && rt != nil && rt.Kind() == reflect.String:
			ns, err := conf.Load(reflect.ValueOf(v).String(), defaultExt)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", pr.Name, err)
			}
			resolved[pr.Name] = ns
		case pr.Kind == param.KindFloat && rt != nil && rt.Kind() == reflect.Int:
			resolved[pr.Name] = reflect.ValueOf(v).Convert(pr.Type).Interface()
		default:
			return nil, fmt.Errorf("parameter %q is expecting %s but got %T which is incompatible",
				pr.Name, pr.Type, v)
		}
	}
	return resolved, nil
}
