package domain

import (
	"sort"
	"strings"
)

// Environment is an immutable set of environment variables handed to
// child processes. Methods that change it return a new value.
type Environment struct {
	vars map[string]string
}

// NewEnvironment parses KEY=VALUE pairs as returned by os.Environ.
// Later duplicates win. Entries without '=' are ignored.
func NewEnvironment(pairs []string) Environment {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}
	return Environment{vars: vars}
}

// Lookup returns the value of key and whether it is set.
func (e Environment) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Get returns the value of key, or "" when unset.
func (e Environment) Get(key string) string {
	return e.vars[key]
}

// With returns a copy of e with key set to value.
func (e Environment) With(key, value string) Environment {
	vars := make(map[string]string, len(e.vars)+1)
	for k, v := range e.vars {
		vars[k] = v
	}
	vars[key] = value
	return Environment{vars: vars}
}

// Len returns the number of variables.
func (e Environment) Len() int {
	return len(e.vars)
}

// Environ returns the variables as sorted KEY=VALUE pairs.
func (e Environment) Environ() []string {
	out := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
