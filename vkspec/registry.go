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

package vkspec

import (
	"io"
	"os"

	"goarrg.com/debug"
)

const (
	DefaultAPI = "vulkan"
	// MaxAliasChain bounds every alias and typedef walk, malformed cycles stop
	// here instead of looping.
	MaxAliasChain = 32
)

// defaultBaseTypes seeds the base-type index, declarations in the document
// override these.
var defaultBaseTypes = map[string]BaseType{
	"VkFlags":         {Name: "VkFlags", Type: "uint32_t"},
	"VkFlags64":       {Name: "VkFlags64", Type: "uint64_t"},
	"VkBool32":        {Name: "VkBool32", Type: "uint32_t"},
	"VkSampleMask":    {Name: "VkSampleMask", Type: "uint32_t"},
	"VkDeviceSize":    {Name: "VkDeviceSize", Type: "uint64_t"},
	"VkDeviceAddress": {Name: "VkDeviceAddress", Type: "uint64_t"},
}

type LoadOptions struct {
	// API picks the definition an index points at when an entity is declared
	// once per API variant, defaults to DefaultAPI.
	API string
	// Strict fails the load on the first structurally invalid entity instead
	// of skipping it.
	Strict bool
}

// Registry holds every entity of a vk.xml registry document. It is read-only
// once Load returns.
type Registry struct {
	API          string
	Constants    []Constant
	Aliases      []TypeAlias
	BaseTypes    []BaseType
	Typedefs     []Typedef
	Enums        []Enum
	Handles      []Handle
	Structs      []Struct
	FuncPointers []FuncPointer
	Commands     []Command
	Platforms    []Platform
	Tags         []Tag
	Features     []Feature
	Extensions   []Extension
	// Skipped lists the entities dropped by a permissive load.
	Skipped []error

	aliases      map[string]string
	baseTypes    map[string]BaseType
	typedefs     map[string]int
	enums        map[string]int
	structs      map[string]int
	handles      map[string]int
	commands     map[string]int
	constants    map[string]int
	funcPointers map[string]int
	features     map[string]int
	extensions   map[string]int
}

func Load(r io.Reader, o LoadOptions) (*Registry, error) {
	if o.API == "" {
		o.API = DefaultAPI
	}
	reg := &Registry{API: o.API}
	if err := parseXML(r, &loader{reg: reg, strict: o.Strict}); err != nil {
		return nil, err
	}
	reg.buildIndices()
	reg.resolveAliases()
	return reg, nil
}

func LoadFile(path string, o LoadOptions) (*Registry, error) {
	fIn, err := os.Open(path)
	if err != nil {
		return nil, debug.ErrorWrapf(err, "failed to open %s", path)
	}
	defer fIn.Close()
	return Load(fIn, o)
}

// index maps names to slice positions. A later declaration only replaces an
// earlier one when the earlier does not apply to api and the later does.
func index[T any](items []T, name func(T) string, itemAPI func(T) string, api string) map[string]int {
	m := make(map[string]int, len(items))
	for i, it := range items {
		n := name(it)
		if j, ok := m[n]; ok {
			if APIMatches(itemAPI(items[j]), api) || !APIMatches(itemAPI(it), api) {
				continue
			}
		}
		m[n] = i
	}
	return m
}

func noAPI[T any](T) string { return "" }

func (r *Registry) buildIndices() {
	r.aliases = make(map[string]string, len(r.Aliases))
	for _, a := range r.Aliases {
		if _, ok := r.aliases[a.Name]; !ok {
			r.aliases[a.Name] = a.Target
		}
	}
	r.baseTypes = make(map[string]BaseType, len(defaultBaseTypes)+len(r.BaseTypes))
	for k, v := range defaultBaseTypes {
		r.baseTypes[k] = v
	}
	for _, b := range r.BaseTypes {
		r.baseTypes[b.Name] = b
	}
	r.typedefs = index(r.Typedefs, func(t Typedef) string { return t.Name }, func(t Typedef) string { return t.API }, r.API)
	r.enums = index(r.Enums, func(e Enum) string { return e.Name }, noAPI[Enum], r.API)
	r.structs = index(r.Structs, func(s Struct) string { return s.Name }, func(s Struct) string { return s.API }, r.API)
	r.handles = index(r.Handles, func(h Handle) string { return h.Name }, func(h Handle) string { return h.API }, r.API)
	r.commands = index(r.Commands, func(c Command) string { return c.Name }, func(c Command) string { return c.API }, r.API)
	r.constants = index(r.Constants, func(c Constant) string { return c.Name }, noAPI[Constant], r.API)
	r.funcPointers = index(r.FuncPointers, func(f FuncPointer) string { return f.Name }, noAPI[FuncPointer], r.API)
	r.features = index(r.Features, func(f Feature) string { return f.Name }, noAPI[Feature], r.API)
	r.extensions = index(r.Extensions, func(e Extension) string { return e.Name }, noAPI[Extension], r.API)
}

// resolveAliases fills aliased commands, handles and constants from their
// concrete target, this has to run last as an alias may precede its target.
func (r *Registry) resolveAliases() {
	for i, cmd := range r.Commands {
		if cmd.Alias == "" {
			continue
		}
		if target, ok := follow(cmd.Alias, r.commands, r.Commands, func(c Command) string { return c.Alias }); ok {
			cmd.ReturnType = target.ReturnType
			cmd.Params = target.Params
			cmd.AllParams = target.AllParams
			cmd.IsInstance = target.IsInstance
			r.Commands[i] = cmd
		}
	}
	for i, h := range r.Handles {
		if h.Alias == "" {
			continue
		}
		if target, ok := follow(h.Alias, r.handles, r.Handles, func(h Handle) string { return h.Alias }); ok {
			h.Dispatchable = target.Dispatchable
			h.Parent = target.Parent
			h.ObjectType = target.ObjectType
			r.Handles[i] = h
		}
	}
	for i, k := range r.Constants {
		if k.Alias == "" {
			continue
		}
		if target, ok := follow(k.Alias, r.constants, r.Constants, func(c Constant) string { return c.Alias }); ok {
			k.Kind = target.Kind
			r.Constants[i] = k
		}
	}
}

// follow walks an alias chain to its concrete entity.
func follow[T any](name string, idx map[string]int, items []T, alias func(T) string) (T, bool) {
	for range MaxAliasChain {
		i, ok := idx[name]
		if !ok {
			break
		}
		if next := alias(items[i]); next != "" {
			name = next
			continue
		}
		return items[i], true
	}
	var zero T
	return zero, false
}

func lookup[T any](idx map[string]int, items []T, name string) (T, bool) {
	if i, ok := idx[name]; ok {
		return items[i], true
	}
	var zero T
	return zero, false
}

// Alias returns the direct target of a type alias.
func (r *Registry) Alias(name string) (string, bool) {
	target, ok := r.aliases[name]
	return target, ok
}

func (r *Registry) BaseType(name string) (BaseType, bool) {
	b, ok := r.baseTypes[name]
	return b, ok
}

func (r *Registry) Typedef(name string) (Typedef, bool) {
	return lookup(r.typedefs, r.Typedefs, name)
}

// Enum returns the enumeration declared as name. The returned Values share
// storage with the registry and must not be modified.
func (r *Registry) Enum(name string) (Enum, bool) {
	return lookup(r.enums, r.Enums, name)
}

func (r *Registry) Struct(name string) (Struct, bool) {
	return lookup(r.structs, r.Structs, name)
}

func (r *Registry) Handle(name string) (Handle, bool) {
	return lookup(r.handles, r.Handles, name)
}

func (r *Registry) Command(name string) (Command, bool) {
	return lookup(r.commands, r.Commands, name)
}

func (r *Registry) Constant(name string) (Constant, bool) {
	return lookup(r.constants, r.Constants, name)
}

func (r *Registry) FuncPointer(name string) (FuncPointer, bool) {
	return lookup(r.funcPointers, r.FuncPointers, name)
}

func (r *Registry) Feature(name string) (Feature, bool) {
	return lookup(r.features, r.Features, name)
}

func (r *Registry) Extension(name string) (Extension, bool) {
	return lookup(r.extensions, r.Extensions, name)
}

// Declared reports whether name is defined as any kind of type.
func (r *Registry) Declared(name string) bool {
	if _, ok := r.aliases[name]; ok {
		return true
	}
	if _, ok := r.baseTypes[name]; ok {
		return true
	}
	for _, idx := range []map[string]int{r.typedefs, r.enums, r.structs, r.handles, r.funcPointers} {
		if _, ok := idx[name]; ok {
			return true
		}
	}
	return false
}

func (r *Registry) TagNames() []string {
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Name)
	}
	return tags
}
