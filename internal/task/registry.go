package task

import (
	"fmt"
	"sort"
)

// Registry maps module names to the tasks they export. The CLI resolves
// its first two arguments (module, function) against a registry filled by
// the embedding binary.
type Registry struct {
	order   []string
	modules map[string]map[string]*Task
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]map[string]*Task)}
}

// Register adds tasks under a module name. Registering two tasks with the
// same name in one module is a programming error and panics.
func (r *Registry) Register(module string, tasks ...*Task) {
	if module == "" {
		panic("task.Register: module name is required")
	}
	m, ok := r.modules[module]
	if !ok {
		m = make(map[string]*Task)
		r.modules[module] = m
		r.order = append(r.order, module)
	}
	for _, t := range tasks {
		if _, exists := m[t.Name]; exists {
			panic(fmt.Sprintf("task.Register: duplicate task %q in module %q", t.Name, module))
		}
		m[t.Name] = t
	}
}

// Lookup resolves a task by module and function name.
func (r *Registry) Lookup(module, fn string) (*Task, error) {
	m, ok := r.modules[module]
	if !ok {
		return nil, fmt.Errorf("unknown module %q", module)
	}
	t, ok := m[fn]
	if !ok {
		return nil, fmt.Errorf("module %q has no function %q", module, fn)
	}
	return t, nil
}

// Modules returns module names in registration order.
func (r *Registry) Modules() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Tasks returns the tasks of a module sorted by name.
func (r *Registry) Tasks(module string) []*Task {
	m := r.modules[module]
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*Task, 0, len(names))
	for _, n := range names {
		out = append(out, m[n])
	}
	return out
}
