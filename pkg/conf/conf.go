// Package conf loads structured configuration files (YAML or JSON) into
// attribute-addressable namespaces.
//
// A Namespace is an ordered tree: every nested mapping in the source file
// becomes a nested *Namespace, so dotted lookups work at any depth. A
// namespace round-trips back to disk with Save, preserving key order.
//
// Basic usage:
//
//	ns, err := conf.Load("params.yml", "yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, _ := ns.Int("value1")
//	nested, _ := ns.Lookup("group1.value2")
package conf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFileType is returned when a config path has an
	// extension other than .json, .yml or .yaml.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrMissingKey is returned when a key is not present in a namespace.
	ErrMissingKey = errors.New("missing key")
)

// Namespace is an ordered key/value tree. Values are scalars, sequences
// ([]any) or nested *Namespace instances.
type Namespace struct {
	keys   []string
	values map[string]any
}

// New returns an empty namespace.
func New() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

// FromMap builds a namespace from a plain map, converting nested maps into
// nested namespaces. Keys are ordered lexicographically since Go maps carry
// no order of their own.
func FromMap(m map[string]any) *Namespace {
	ns := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ns.Set(k, m[k])
	}
	return ns
}

// Set stores a value under key, appending the key to the namespace order if
// it is new. Nested maps are converted to namespaces.
func (n *Namespace) Set(key string, value any) {
	if _, ok := n.values[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.values[key] = fromValue(value)
}

func fromValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromValue(e)
		}
		return out
	default:
		return v
	}
}

// Get returns the value stored under key.
func (n *Namespace) Get(key string) (any, error) {
	v, ok := n.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	return v, nil
}

// Has reports whether key is present.
func (n *Namespace) Has(key string) bool {
	_, ok := n.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (n *Namespace) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Len returns the number of keys.
func (n *Namespace) Len() int { return len(n.keys) }

// Child returns the nested namespace stored under key.
func (n *Namespace) Child(key string) (*Namespace, error) {
	v, err := n.Get(key)
	if err != nil {
		return nil, err
	}
	child, ok := v.(*Namespace)
	if !ok {
		return nil, fmt.Errorf("key %q holds %T, not a nested namespace", key, v)
	}
	return child, nil
}

// String returns the string value stored under key.
func (n *Namespace) String(key string) (string, error) {
	v, err := n.Get(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("key %q holds %T, not a string", key, v)
	}
	return s, nil
}

// Int returns the integer value stored under key.
func (n *Namespace) Int(key string) (int, error) {
	v, err := n.Get(key)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	default:
		return 0, fmt.Errorf("key %q holds %T, not an integer", key, v)
	}
}

// Float returns the float value stored under key. Integers widen.
func (n *Namespace) Float(key string) (float64, error) {
	v, err := n.Get(key)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("key %q holds %T, not a number", key, v)
	}
}

// Bool returns the boolean value stored under key.
func (n *Namespace) Bool(key string) (bool, error) {
	v, err := n.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("key %q holds %T, not a bool", key, v)
	}
	return b, nil
}

// Strings returns the sequence stored under key as a string slice.
func (n *Namespace) Strings(key string) ([]string, error) {
	v, err := n.Get(key)
	if err != nil {
		return nil, err
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("key %q holds %T, not a sequence", key, v)
	}
	out := make([]string, len(seq))
	for i, e := range seq {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("key %q element %d holds %T, not a string", key, i, e)
		}
		out[i] = s
	}
	return out, nil
}

// Lookup resolves a dotted path ("group1.value2") through nested namespaces.
func (n *Namespace) Lookup(path string) (any, error) {
	parts := strings.Split(path, ".")
	cur := n
	for i, p := range parts {
		if i == len(parts)-1 {
			return cur.Get(p)
		}
		child, err := cur.Child(p)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", path, err)
		}
		cur = child
	}
	return nil, fmt.Errorf("%w: %q", ErrMissingKey, path)
}

// ToMap recursively expands the namespace back into plain maps.
func (n *Namespace) ToMap() map[string]any {
	out := make(map[string]any, len(n.keys))
	for _, k := range n.keys {
		out[k] = toPlain(n.values[k])
	}
	return out
}

func toPlain(v any) any {
	switch t := v.(type) {
	case *Namespace:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toPlain(e)
		}
		return out
	default:
		return v
	}
}

// Flatten returns every leaf value keyed by its dotted path. Sequence
// elements are addressed by index.
func (n *Namespace) Flatten() map[string]any {
	out := make(map[string]any)
	n.flattenInto("", out)
	return out
}

func (n *Namespace) flattenInto(prefix string, out map[string]any) {
	for _, k := range n.keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch t := n.values[k].(type) {
		case *Namespace:
			t.flattenInto(path, out)
		case []any:
			for i, e := range t {
				out[fmt.Sprintf("%s.%d", path, i)] = e
			}
		default:
			out[path] = t
		}
	}
}

// Load reads a YAML or JSON file into a namespace. If path is a directory,
// the first file in it (lexicographic order) with the given default
// extension is loaded instead; a missing match is a not-found error.
func Load(path, defaultExt string) (*Namespace, error) {
	if defaultExt == "" {
		defaultExt = "yml"
	}
	defaultExt = strings.TrimPrefix(defaultExt, ".")

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config path %s: %w", path, err)
	}
	if info.IsDir() {
		path, err = firstWithExt(path, defaultExt)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".yml", ".yaml":
		// JSON is a YAML subset, so a single decoder covers both and
		// keeps mapping key order via the node representation.
		return parse(data, path)
	default:
		return nil, fmt.Errorf("%w: %s (want .json, .yml or .yaml)", ErrUnsupportedFileType, path)
	}
}

// firstWithExt returns the first regular file under dir with the extension.
func firstWithExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read config dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), "."+ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no .%s file under directory %s: %w", ext, dir, fs.ErrNotExist)
}

func parse(data []byte, path string) (*Namespace, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse config %s: %v", path, err)
	}
	if len(root.Content) == 0 {
		return New(), nil
	}
	v, err := fromNode(root.Content[0])
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %v", path, err)
	}
	ns, ok := v.(*Namespace)
	if !ok {
		return nil, fmt.Errorf("config %s: top-level value is %T, want a mapping", path, v)
	}
	return ns, nil
}

func fromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return fromNode(node.Alias)
	case yaml.MappingNode:
		ns := New()
		for i := 0; i+1 < len(node.Content); i += 2 {
			// Non-string keys (e.g. bare integers) keep their literal form.
			var key string
			if err := node.Content[i].Decode(&key); err != nil {
				key = node.Content[i].Value
			}
			val, err := fromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			ns.Set(key, val)
		}
		return ns, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		// Scalar: let the decoder resolve native YAML tags
		// (bool, int, float, timestamp, null).
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Save serializes the namespace to path, dispatching on its extension the
// same way Load does.
func (n *Namespace) Save(path string) error {
	var data []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(n, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case ".yml", ".yaml":
		data, err = yaml.Marshal(n)
	default:
		return fmt.Errorf("%w: %s (want .json, .yml or .yaml)", ErrUnsupportedFileType, path)
	}
	if err != nil {
		return fmt.Errorf("serialize config %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// MarshalYAML emits the namespace as a mapping node in key order.
func (n *Namespace) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range n.keys {
		var keyNode, valNode yaml.Node
		if err := keyNode.Encode(k); err != nil {
			return nil, err
		}
		if err := valNode.Encode(n.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &keyNode, &valNode)
	}
	return node, nil
}

// MarshalJSON emits the namespace as a JSON object in key order.
func (n *Namespace) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range n.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(n.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
