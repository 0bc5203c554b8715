package param_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/taskworks/jobrun/internal/param"
	"github.com/taskworks/jobrun/pkg/conf"
)

type strategy string

const (
	bigger  strategy = "Bigger is better"
	smaller strategy = "Smaller is better"
)

func (strategy) EnumValues() []string {
	return []string{string(bigger), string(smaller)}
}

type okParams struct {
	Name     string          `arg:"name" usage:"a name"`
	Params   *conf.Namespace `arg:"params"`
	FromPath string
	Strategy strategy `arg:"compare_strategy"`
	Items    []string `arg:"items"`
	Retries  int      `arg:"retries" default:"3"`
	Ratio    float64  `arg:"ratio" default:"0.5"`
	Flag     bool     `arg:"flag" default:"false"`
}

func TestInspectKindsAndFlags(t *testing.T) {
	sig, err := param.Inspect(reflect.TypeOf(okParams{}))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	want := []struct {
		name     string
		flag     string
		kind     param.Kind
		required bool
	}{
		{"name", "name", param.KindString, true},
		{"params", "params", param.KindConfig, true},
		{"from_path", "from-path", param.KindString, true},
		{"compare_strategy", "compare-strategy", param.KindEnum, true},
		{"items", "items", param.KindList, true},
		{"retries", "retries", param.KindInt, false},
		{"ratio", "ratio", param.KindFloat, false},
		{"flag", "flag", param.KindBool, false},
	}

	if len(sig.Params) != len(want) {
		t.Fatalf("got %d params, want %d", len(sig.Params), len(want))
	}
	for i, w := range want {
		p := sig.Params[i]
		if p.Name != w.name || p.Flag != w.flag || p.Kind != w.kind || p.Required != w.required {
			t.Errorf("param %d = {%s %s %s required=%v}, want {%s %s %s required=%v}",
				i, p.Name, p.Flag, p.Kind, p.Required, w.name, w.flag, w.kind, w.required)
		}
	}
}

func TestInspectDefaultsAreTyped(t *testing.T) {
	sig, err := param.Inspect(reflect.TypeOf(okParams{}))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	retries, _ := sig.ParamNamed("retries")
	if retries.Default != 3 {
		t.Errorf("retries default = %v (%T), want 3", retries.Default, retries.Default)
	}
	ratio, _ := sig.ParamNamed("ratio")
	if ratio.Default != 0.5 {
		t.Errorf("ratio default = %v, want 0.5", ratio.Default)
	}
}

func TestInspectEnumMembers(t *testing.T) {
	sig, err := param.Inspect(reflect.TypeOf(okParams{}))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	p, ok := sig.ParamNamed("compare_strategy")
	if !ok {
		t.Fatal("compare_strategy not found")
	}
	want := []string{"Bigger is better", "Smaller is better"}
	if !reflect.DeepEqual(p.Enum, want) {
		t.Errorf("enum members = %v, want %v", p.Enum, want)
	}
}

func TestInspectConfigDefaultFails(t *testing.T) {
	type bad struct {
		Params *conf.Namespace `arg:"params" default:"params.yml"`
	}
	_, err := param.Inspect(reflect.TypeOf(bad{}))
	if !errors.Is(err, param.ErrConfigDefault) {
		t.Errorf("Inspect() error = %v, want ErrConfigDefault", err)
	}
}

func TestInspectUnsupportedType(t *testing.T) {
	type bad struct {
		When map[string]int `arg:"when"`
	}
	_, err := param.Inspect(reflect.TypeOf(bad{}))
	if !errors.Is(err, param.ErrUnsupportedType) {
		t.Errorf("Inspect() error = %v, want ErrUnsupportedType", err)
	}
}

func TestInspectRejectsNamedStringSliceElement(t *testing.T) {
	type bad struct {
		Strategies []strategy `arg:"strategies"`
	}
	_, err := param.Inspect(reflect.TypeOf(bad{}))
	if !errors.Is(err, param.ErrUnsupportedType) {
		t.Errorf("Inspect() error = %v, want ErrUnsupportedType", err)
	}
}

func TestInspectInterfaceFieldFails(t *testing.T) {
	type bad struct {
		Anything any `arg:"anything"`
	}
	_, err := param.Inspect(reflect.TypeOf(bad{}))
	if !errors.Is(err, param.ErrMissingType) {
		t.Errorf("Inspect() error = %v, want ErrMissingType", err)
	}
}

func TestInspectSkipsUnexportedAndDashed(t *testing.T) {
	type p struct {
		Name    string `arg:"name"`
		hidden  string
		Skipped string `arg:"-"`
	}
	_ = p{hidden: ""}
	sig, err := param.Inspect(reflect.TypeOf(p{}))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(sig.Params) != 1 || sig.Params[0].Name != "name" {
		t.Errorf("params = %+v, want only name", sig.Params)
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"yes", "true", "t", "y", "1", "-1", "YES", "True", "T"}
	for _, in := range truthy {
		if v, err := param.ParseBool(in); err != nil || !v {
			t.Errorf("ParseBool(%q) = %v, %v, want true", in, v, err)
		}
	}
	falsy := []string{"no", "false", "f", "n", "0", "NO", "False", "F"}
	for _, in := range falsy {
		if v, err := param.ParseBool(in); err != nil || v {
			t.Errorf("ParseBool(%q) = %v, %v, want false", in, v, err)
		}
	}
	for _, in := range []string{"", "2", "maybe", "tru"} {
		if _, err := param.ParseBool(in); err == nil {
			t.Errorf("ParseBool(%q) succeeded, want error", in)
		}
	}
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"lala, pepe", []string{"lala", "pepe"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{"single", []string{"single"}},
		{" padded , items ", []string{"padded", "items"}},
	}
	for _, c := range cases {
		if got := param.SplitList(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitList(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestConvertEnum(t *testing.T) {
	sig, err := param.Inspect(reflect.TypeOf(okParams{}))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	p, _ := sig.ParamNamed("compare_strategy")

	v, err := param.ConvertEnum(p, "Bigger is better")
	if err != nil {
		t.Fatalf("ConvertEnum() error = %v", err)
	}
	if s, ok := v.(strategy); !ok || s != bigger {
		t.Errorf("ConvertEnum() = %v (%T), want strategy bigger", v, v)
	}

	if _, err := param.ConvertEnum(p, "Sideways is better"); err == nil {
		t.Error("ConvertEnum() accepted a non-member value")
	}
}
