/*
Copyright 2026 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package resolve maps vk.xml type names onto a small set of
// primitive, opaque and nominal representations.
package resolve

import (
	"errors"
	"strings"

	"goarrg.com/lib/vkgen/vkspec"
)

type Kind int

const (
	// Primitive types come from the basic-type table, possibly reached through
	// aliases, base types or typedefs.
	Primitive Kind = iota
	// Opaque types are platform types represented as a pointer sized value.
	Opaque
	// FuncPointer types are represented like Opaque ones and never expanded.
	FuncPointer
	String
	// Override is a typedef's "requires" target taken verbatim.
	Override
	// Nominal types are left as named, they are expected to be a struct,
	// union, enum or handle defined elsewhere.
	Nominal
)

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Opaque:
		return "opaque"
	case FuncPointer:
		return "funcpointer"
	case String:
		return "string"
	case Override:
		return "override"
	case Nominal:
		return "nominal"
	default:
		return "unknown"
	}
}

type Type struct {
	Name    string
	Pointer int
	Kind    Kind
}

func (t Type) String() string {
	return t.Name + strings.Repeat("*", t.Pointer)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

var (
	ErrUnresolved = errors.New("type is not declared")
	ErrAliasCycle = errors.New("alias chain too long")
)

// Source is the lookup surface the resolver needs, *vkspec.Registry
// implements it.
type Source interface {
	Alias(name string) (string, bool)
	BaseType(name string) (vkspec.BaseType, bool)
	Typedef(name string) (vkspec.Typedef, bool)
	Declared(name string) bool
}

type Resolver struct {
	src Source
	// Unresolved, when set, receives every name that falls back to nominal
	// typing without being declared, and every alias chain that exceeds
	// vkspec.MaxAliasChain.
	Unresolved func(name string, err error)
}

func New(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve computes the representation of name used with pointer levels of
// indirection. Opaque, function pointer and string types have a fixed
// pointer shape and ignore pointer.
func (r *Resolver) Resolve(name string, pointer int) Type {
	t, fixed := r.resolve(name, name, 0)
	if !fixed {
		t.Pointer += pointer
	}
	return t
}

func (r *Resolver) resolve(orig, name string, depth int) (Type, bool) {
	switch {
	case IsOpaque(name):
		return Type{Name: "void", Pointer: 1, Kind: Opaque}, true
	case strings.HasPrefix(name, "PFN_"):
		return Type{Name: "void", Pointer: 1, Kind: FuncPointer}, true
	case strings.HasPrefix(name, `"`):
		return Type{Name: "char8", Pointer: 1, Kind: String}, true
	}
	if t, ok := basicTypes[name]; ok {
		return Type{Name: t, Kind: Primitive}, false
	}
	if r.src == nil {
		r.report(orig, ErrUnresolved)
		return Type{Name: name, Kind: Nominal}, false
	}
	if depth >= vkspec.MaxAliasChain {
		r.report(orig, ErrAliasCycle)
		return Type{Name: orig, Kind: Nominal}, false
	}

	if target, ok := r.src.Alias(name); ok {
		return r.resolve(orig, target, depth+1)
	}
	if b, ok := r.src.BaseType(name); ok {
		if t, ok := basicTypes[b.Type]; ok {
			return Type{Name: t, Pointer: b.Pointer, Kind: Primitive}, false
		}
		t, fixed := r.resolve(orig, b.Type, depth+1)
		if !fixed {
			t.Pointer += b.Pointer
		}
		return t, fixed
	}
	if td, ok := r.src.Typedef(name); ok {
		if td.Requires != "" {
			return Type{Name: td.Requires, Kind: Override}, false
		}
		return r.resolve(orig, td.Type, depth+1)
	}
	if !r.src.Declared(name) {
		r.report(name, ErrUnresolved)
	}
	return Type{Name: name, Kind: Nominal}, false
}

func (r *Resolver) report(name string, err error) {
	if r.Unresolved != nil {
		r.Unresolved(name, err)
	}
}
