package env

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

// ErrUnresolved is returned when a {{name}} reference has no value.
var ErrUnresolved = errors.New("unresolved variable")

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolver substitutes {{name}} references with variables and {{$NAME}}
// references with process environment variables. It is safe for concurrent
// use.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]string
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]string),
	}
}

func (r *Resolver) SetVariables(vars map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

func (r *Resolver) GetVariable(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variables[name]
	return v, ok
}

func (r *Resolver) lookup(expr string) (string, bool) {
	if name, ok := strings.CutPrefix(expr, "$"); ok {
		return os.LookupEnv(name)
	}
	return r.GetVariable(expr)
}

// Resolve replaces every reference in input. Unresolved references are left
// in place and reported in one error matching ErrUnresolved.
func (r *Resolver) Resolve(input string) (string, error) {
	var missing []string
	out := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := r.lookup(expr); ok {
			return val
		}
		missing = append(missing, expr)
		return match
	})

	if len(missing) > 0 {
		return out, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}
	return out, nil
}

// ResolveAll resolves every string in values, stopping at the first error.
func (r *Resolver) ResolveAll(values []string) ([]string, error) {
	result := make([]string, len(values))
	for i, v := range values {
		resolved, err := r.Resolve(v)
		if err != nil {
			return nil, err
		}
		result[i] = resolved
	}
	return result, nil
}

// Unresolved lists the references in input that have no value, in order.
func (r *Resolver) Unresolved(input string) []string {
	var names []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if _, ok := r.lookup(expr); !ok {
			names = append(names, expr)
		}
	}
	return names
}
