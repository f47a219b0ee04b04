package lang

import (
	"log/slog"
	"slices"
)

// reserved names hold the literal constants of the global scope and can
// never be reassigned, even if shadowed.
var reserved = []string{"true", "false", "null"}

// Environment is a single lexical scope. It borrows its parent for lookups
// and never mutates it except through [Environment.Assign] and
// [Environment.Delete] on bindings the parent owns.
type Environment struct {
	parent    *Environment
	variables map[string]Value
	constants map[string]struct{}
}

// NewEnvironment returns an empty scope enclosed by parent.
// A nil parent creates a root scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent:    parent,
		variables: make(map[string]Value),
		constants: make(map[string]struct{}),
	}
}

// Parent returns the enclosing scope, or nil for the root.
func (e *Environment) Parent() *Environment { return e.parent }

// Declare binds name in this scope. Shadowing a binding from an enclosing
// scope is allowed; redeclaring one in the same scope is not.
func (e *Environment) Declare(name string, v Value, constant bool) (Value, error) {
	if _, ok := e.variables[name]; ok {
		return nil, ErrDuplicateDeclaration.With(slog.String("name", name))
	}

	if constant {
		e.constants[name] = struct{}{}
	}

	e.variables[name] = v

	return v, nil
}

// Assign stores v into the nearest scope that binds name.
func (e *Environment) Assign(name string, v Value) (Value, error) {
	if slices.Contains(reserved, name) {
		return nil, ErrReservedIdentifier.With(slog.String("name", name))
	}

	scope := e.Resolve(name)
	if scope == nil {
		return nil, ErrUndefined.With(slog.String("name", name))
	}

	if scope.IsConstant(name) {
		return nil, ErrAssignConstant.With(slog.String("name", name))
	}

	scope.variables[name] = v

	return v, nil
}

// Lookup returns the value bound to name in the nearest scope.
func (e *Environment) Lookup(name string) (Value, error) {
	scope := e.Resolve(name)
	if scope == nil {
		return nil, ErrUndefined.With(slog.String("name", name))
	}

	return scope.variables[name], nil
}

// Resolve returns the nearest scope that binds name, or nil if no scope in
// the chain does.
func (e *Environment) Resolve(name string) *Environment {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.variables[name]; ok {
			return scope
		}
	}

	return nil
}

// Delete removes the nearest binding of name. Constants and reserved names
// cannot be deleted.
func (e *Environment) Delete(name string) error {
	if slices.Contains(reserved, name) {
		return ErrReservedIdentifier.With(slog.String("name", name))
	}

	scope := e.Resolve(name)
	if scope == nil {
		return ErrUndefined.With(slog.String("name", name))
	}

	if scope.IsConstant(name) {
		return ErrDeleteConstant.With(slog.String("name", name))
	}

	delete(scope.variables, name)

	return nil
}

// IsConstant reports whether name is bound as a constant in this scope.
func (e *Environment) IsConstant(name string) bool {
	_, ok := e.constants[name]

	return ok
}

// Names returns the names bound in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.variables))
	for name := range e.variables {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Visible returns every name reachable from this scope, innermost first,
// without duplicates.
func (e *Environment) Visible() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)

	for scope := e; scope != nil; scope = scope.parent {
		for _, name := range scope.Names() {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}
