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

// Package merge flattens a core version and a selection of extensions into a
// resolved Snapshot.
package merge

import (
	"strconv"
	"strings"

	"goarrg.com/debug"
	"goarrg.com/lib/vkgen/names"
	"goarrg.com/lib/vkgen/resolve"
	"goarrg.com/lib/vkgen/vkspec"
)

// SafetyCriticalAPI is excluded from members and parameters by default.
const SafetyCriticalAPI = "vulkansc"

type Options struct {
	// API selects features and extensions, defaults to vkspec.DefaultAPI.
	API string
	// Version is the last feature merged by Merge, empty merges every feature
	// of API.
	Version    string
	Extensions []string
	// AllExtensions merges every extension supported by API, Extensions is
	// ignored.
	AllExtensions bool
	// ExcludeAPIs drops entities whose api attribute only names excluded
	// variants. Nil excludes SafetyCriticalAPI, or vkspec.DefaultAPI when API
	// is SafetyCriticalAPI.
	ExcludeAPIs []string
}

func (o Options) withDefaults() Options {
	if o.API == "" {
		o.API = vkspec.DefaultAPI
	}
	if o.ExcludeAPIs == nil {
		if o.API == SafetyCriticalAPI {
			o.ExcludeAPIs = []string{vkspec.DefaultAPI}
		} else {
			o.ExcludeAPIs = []string{SafetyCriticalAPI}
		}
	}
	return o
}

type orderedSet struct {
	names []string
	seen  map[string]bool
}

func (s *orderedSet) add(name string) bool {
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	if name == "" || s.seen[name] {
		return false
	}
	s.seen[name] = true
	s.names = append(s.names, name)
	return true
}

func (s orderedSet) clone() orderedSet {
	c := orderedSet{names: append([]string(nil), s.names...), seen: make(map[string]bool, len(s.seen))}
	for k, v := range s.seen {
		c.seen[k] = v
	}
	return c
}

// Merger accumulates the entities required by features and extensions. Adding
// the same feature or extension twice has no effect.
type Merger struct {
	reg     *vkspec.Registry
	opts    Options
	exclude map[string]bool

	features    orderedSet
	extensions  orderedSet
	types       orderedSet
	commands    orderedSet
	constants   []vkspec.Constant
	constantSet orderedSet
	// enumValues holds values contributed to enumerations by require blocks,
	// keyed by enumeration name.
	enumValues   map[string][]vkspec.EnumValue
	enumValueSet orderedSet
	cmdPlatform  map[string]string
}

func New(reg *vkspec.Registry, o Options) (*Merger, error) {
	o = o.withDefaults()
	m := &Merger{
		reg:         reg,
		opts:        o,
		exclude:     map[string]bool{},
		enumValues:  map[string][]vkspec.EnumValue{},
		cmdPlatform: map[string]string{},
	}
	for _, api := range o.ExcludeAPIs {
		if api != o.API {
			m.exclude[api] = true
		}
	}
	if o.Version != "" {
		f, ok := reg.Feature(o.Version)
		if !ok {
			return nil, debug.Errorf("unknown version %q", o.Version)
		}
		if !apiListed(f.API, o.API) {
			return nil, debug.Errorf("version %q is not defined for api %q", o.Version, o.API)
		}
	}
	return m, nil
}

// Merge adds every feature of the selected API up to and including
// o.Version, then the selected extensions in order.
func Merge(reg *vkspec.Registry, o Options) (*Snapshot, error) {
	m, err := New(reg, o)
	if err != nil {
		return nil, err
	}
	for _, f := range reg.Features {
		if !apiListed(f.API, m.opts.API) {
			continue
		}
		if err := m.AddFeature(f.Name); err != nil {
			return nil, err
		}
		if f.Name == m.opts.Version {
			break
		}
	}
	if m.opts.AllExtensions {
		for _, e := range reg.Extensions {
			if !e.SupportedBy(m.opts.API) {
				continue
			}
			if err := m.AddExtension(e.Name); err != nil {
				return nil, err
			}
		}
	} else {
		for _, name := range m.opts.Extensions {
			if err := m.AddExtension(name); err != nil {
				return nil, err
			}
		}
	}
	return m.Snapshot(), nil
}

func apiListed(list []string, api string) bool {
	for _, a := range list {
		if a == api {
			return true
		}
	}
	return false
}

// excluded reports whether an api attribute only names excluded variants.
func (m *Merger) excluded(attr string) bool {
	apis := vkspec.SplitAPI(attr)
	if len(apis) == 0 {
		return false
	}
	for _, api := range apis {
		if !m.exclude[api] {
			return false
		}
	}
	return true
}

func (m *Merger) AddFeature(name string) error {
	f, ok := m.reg.Feature(name)
	if !ok {
		return debug.Errorf("unknown feature %q", name)
	}
	if !apiListed(f.API, m.opts.API) {
		return debug.Errorf("feature %q is not defined for api %q", name, m.opts.API)
	}
	if !m.features.add(name) {
		return nil
	}
	for _, req := range f.Requires {
		m.addRequire(req, "")
	}
	return nil
}

func (m *Merger) AddExtension(name string) error {
	e, ok := m.reg.Extension(name)
	if !ok {
		return debug.Errorf("unknown extension %q", name)
	}
	if !e.SupportedBy(m.opts.API) {
		return debug.Errorf("extension %q is not supported by api %q (supported=%q)",
			name, m.opts.API, strings.Join(e.Supported, ","))
	}
	if !m.extensions.add(name) {
		return nil
	}
	for _, req := range e.Requires {
		m.addRequire(req, e.Platform)
	}
	return nil
}

func (m *Merger) addRequire(req vkspec.Require, platform string) {
	if m.excluded(req.API) {
		return
	}
	for _, t := range req.Types {
		m.types.add(t)
	}
	for _, c := range req.Commands {
		m.commands.add(c)
		if _, ok := m.cmdPlatform[c]; !ok && platform != "" {
			m.cmdPlatform[c] = platform
		}
	}
	for _, e := range req.Enums {
		switch {
		case e.Value != nil:
			if m.excluded(e.Value.API) {
				continue
			}
			if m.enumValueSet.add(e.Extends + "." + e.Value.Name) {
				m.enumValues[e.Extends] = append(m.enumValues[e.Extends], *e.Value)
			}
			m.types.add(e.Extends)
		case e.Constant != nil:
			m.addConstant(*e.Constant)
		default:
			if k, ok := m.reg.Constant(e.Name); ok {
				m.addConstant(k)
			}
		}
	}
}

func (m *Merger) addConstant(k vkspec.Constant) {
	if m.constantSet.add(k.Name) {
		m.constants = append(m.constants, k)
	}
}

// snapshotBuilder holds the state of a single Snapshot call.
type snapshotBuilder struct {
	m          *Merger
	s          *Snapshot
	resolver   *resolve.Resolver
	namer      *names.Namer
	unresolved orderedSet
	constants  map[string]vkspec.Constant
}

// Snapshot resolves everything added so far. The Merger can keep accepting
// features and extensions afterwards, the returned Snapshot does not change.
func (m *Merger) Snapshot() *Snapshot {
	b := &snapshotBuilder{
		m: m,
		s: &Snapshot{
			API:        m.opts.API,
			Features:   append([]string(nil), m.features.names...),
			Extensions: append([]string(nil), m.extensions.names...),
		},
		resolver:  resolve.New(m.reg),
		namer:     names.NewNamer(m.reg.TagNames()),
		constants: make(map[string]vkspec.Constant, len(m.constants)),
	}
	b.resolver.Unresolved = func(name string, err error) {
		b.unresolved.add(name)
	}
	for _, k := range m.constants {
		b.constants[k.Name] = k
	}

	b.buildConstants()
	structs := b.buildTypes()
	b.buildStructs(structs)
	b.buildCommands()
	b.s.Unresolved = b.unresolved.names
	return b.s
}

func (b *snapshotBuilder) constant(name string) (vkspec.Constant, bool) {
	if k, ok := b.constants[name]; ok {
		return k, true
	}
	return b.m.reg.Constant(name)
}

// concreteConstant follows an alias chain among the merged and registered
// constants.
func (b *snapshotBuilder) concreteConstant(k vkspec.Constant) (vkspec.Constant, bool) {
	for range vkspec.MaxAliasChain {
		if k.Alias == "" {
			return k, true
		}
		next, ok := b.constant(k.Alias)
		if !ok {
			return k, false
		}
		k = next
	}
	return k, false
}

func (b *snapshotBuilder) buildConstants() {
	for _, k := range b.m.constants {
		out := Constant{
			Name:    k.Name,
			Kind:    k.Kind,
			Alias:   k.Alias,
			Comment: k.Comment,
		}
		if k.Alias == "" {
			out.Value = k.Literal()
		} else if target, ok := b.concreteConstant(k); ok {
			out.Kind = target.Kind
			out.Target = target.Name
		} else {
			debug.WPrintf("constant %s: alias %s does not resolve", k.Name, k.Alias)
		}
		out.KindName = out.Kind.String()
		b.s.Constants = append(b.s.Constants, out)
	}
}

// arrayLength returns the value of a constant used as an array dimension.
func (b *snapshotBuilder) arrayLength(name string) int {
	k, ok := b.constant(name)
	if ok {
		k, ok = b.concreteConstant(k)
	}
	if !ok {
		debug.WPrintf("array length %s is not a constant", name)
		return 0
	}
	n, err := strconv.ParseUint(k.Literal(), 0, 32)
	if err != nil {
		debug.WPrintf("array length %s=%s is not an integer", name, k.Value)
		return 0
	}
	return int(n)
}

func (b *snapshotBuilder) concreteAlias(name string) string {
	for range vkspec.MaxAliasChain {
		target, ok := b.m.reg.Alias(name)
		if !ok {
			return name
		}
		name = target
	}
	return name
}

// buildTypes classifies every required type name, types referenced by an
// alias or a bitmask are pulled in behind the ones required directly.
func (b *snapshotBuilder) buildTypes() []vkspec.Struct {
	reg := b.m.reg
	types := b.m.types.clone()
	var structs []vkspec.Struct

	for i := 0; i < len(types.names); i++ {
		name := types.names[i]
		if _, ok := reg.Alias(name); ok {
			target := b.concreteAlias(name)
			b.s.Aliases = append(b.s.Aliases, Alias{Name: name, Target: target})
			types.add(target)
			continue
		}
		if e, ok := reg.Enum(name); ok {
			b.s.Enums = append(b.s.Enums, b.buildEnum(e))
			continue
		}
		if st, ok := reg.Struct(name); ok {
			if !b.m.excluded(st.API) {
				structs = append(structs, st)
			}
			continue
		}
		if h, ok := reg.Handle(name); ok {
			if !b.m.excluded(h.API) {
				b.s.Handles = append(b.s.Handles, buildHandle(h))
			}
			continue
		}
		if fp, ok := reg.FuncPointer(name); ok {
			b.s.FuncPointers = append(b.s.FuncPointers, FuncPointer{
				Name:       fp.Name,
				ReturnType: b.resolver.Resolve(fp.ReturnType, fp.ReturnPointer),
				Params:     b.buildParams(fp.Params),
			})
			continue
		}
		if td, ok := reg.Typedef(name); ok {
			if b.m.excluded(td.API) {
				continue
			}
			b.s.Typedefs = append(b.s.Typedefs, Typedef{
				Name:       td.Name,
				Type:       b.resolver.Resolve(td.Name, 0),
				Underlying: b.resolver.Resolve(td.Type, 0),
				Requires:   td.Requires,
				Category:   td.Category,
			})
			if _, ok := reg.Enum(td.Requires); ok {
				types.add(td.Requires)
			}
			continue
		}
		if bt, ok := reg.BaseType(name); ok {
			b.s.BaseTypes = append(b.s.BaseTypes, BaseType{
				Name: bt.Name,
				Type: b.resolver.Resolve(bt.Type, bt.Pointer),
			})
		}
	}
	return structs
}

func buildHandle(h vkspec.Handle) Handle {
	out := Handle{
		Name:         h.Name,
		Dispatchable: h.Dispatchable,
		Parent:       h.Parent,
		ObjectType:   h.ObjectType,
		Storage:      resolve.Type{Name: "uint64", Kind: resolve.Primitive},
	}
	if h.Dispatchable {
		out.Storage = resolve.Type{Name: "void", Pointer: 1, Kind: resolve.Opaque}
	}
	return out
}

func (b *snapshotBuilder) buildEnum(e vkspec.Enum) Enum {
	values := make([]vkspec.EnumValue, 0, len(e.Values))
	present := map[string]bool{}
	for _, v := range e.Values {
		if b.m.excluded(v.API) || present[v.Name] {
			continue
		}
		present[v.Name] = true
		values = append(values, v)
	}
	for _, v := range b.m.enumValues[e.Name] {
		if present[v.Name] {
			continue
		}
		present[v.Name] = true
		values = append(values, v)
	}

	// aliases may name a value dropped for its api
	byName := make(map[string]vkspec.EnumValue, len(e.Values))
	for _, v := range values {
		byName[v.Name] = v
	}
	for _, v := range e.Values {
		if _, ok := byName[v.Name]; !ok {
			byName[v.Name] = v
		}
	}
	out := Enum{
		Name:        e.Name,
		DisplayName: names.DisplayName(e.Name),
		Kind:        e.Kind,
		Bitmask:     e.Kind == vkspec.EnumBitmask,
		Comment:     e.Comment,
		Values:      make([]EnumValue, 0, len(values)+1),
	}
	hasZero, negative := false, false
	for _, v := range values {
		ev := EnumValue{
			Name:        v.Name,
			DisplayName: b.namer.EnumValue(e.Name, v.Name),
			Value:       v.Value,
			Hex:         v.Hex,
			Alias:       v.Alias,
			Comment:     v.Comment,
		}
		if v.Kind == vkspec.EnumValueAlias {
			target, ok := followEnumAlias(byName, v)
			if !ok {
				debug.WPrintf("enum %s: alias %s of %s does not resolve", e.Name, v.Alias, v.Name)
			} else if target.Value == 0 {
				hasZero = true
			}
			ev.Value, ev.Hex = target.Value, target.Hex
		} else if v.Value == 0 {
			hasZero = true
		}
		if ev.Value < 0 {
			negative = true
		}
		out.Values = append(out.Values, ev)
	}
	if !hasZero {
		out.Values = append([]EnumValue{{
			Name:        "None",
			DisplayName: b.namer.EnumValue(e.Name, "None"),
			Synthetic:   true,
		}}, out.Values...)
	}

	switch {
	case e.BitWidth == 64:
		out.Storage = "uint64"
	case negative:
		out.Storage = "int32"
	default:
		out.Storage = "uint32"
	}
	return out
}

func followEnumAlias(byName map[string]vkspec.EnumValue, v vkspec.EnumValue) (vkspec.EnumValue, bool) {
	for range vkspec.MaxAliasChain {
		if v.Kind != vkspec.EnumValueAlias {
			return v, true
		}
		next, ok := byName[v.Alias]
		if !ok {
			return vkspec.EnumValue{}, false
		}
		v = next
	}
	return vkspec.EnumValue{}, false
}

func normalizeDiscriminator(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

// discriminators maps normalized structure type values to their names, a key
// with more than one match maps to "".
func (b *snapshotBuilder) discriminators() map[string]string {
	m := map[string]string{}
	e, ok := b.s.Enum("VkStructureType")
	if !ok {
		return m
	}
	for _, v := range e.Values {
		if v.Synthetic {
			continue
		}
		key := normalizeDiscriminator(v.Name)
		if _, dup := m[key]; dup {
			m[key] = ""
			continue
		}
		m[key] = v.Name
	}
	return m
}

func (b *snapshotBuilder) buildStructs(structs []vkspec.Struct) {
	discriminators := b.discriminators()
	for _, st := range structs {
		out := Struct{
			Name:         st.Name,
			Union:        st.Union,
			ReturnedOnly: st.ReturnedOnly,
			Extends:      st.Extends,
			Comment:      st.Comment,
			Members:      make([]Member, 0, len(st.Members)),
		}
		discriminator := ""
		if rest, ok := strings.CutPrefix(st.Name, "Vk"); ok {
			discriminator = discriminators[normalizeDiscriminator("VkStructureType"+rest)]
		}
		for _, mem := range st.Members {
			if b.m.excluded(mem.API) {
				continue
			}
			om := Member{
				Name:          names.IdentifierSafe(mem.Name),
				Type:          b.resolver.Resolve(mem.TypeName, mem.Pointer),
				TypeName:      mem.TypeName,
				IsConst:       mem.IsConst,
				ArrayConstant: mem.ArrayConstant,
				BitField:      mem.BitField,
				Optional:      mem.Optional,
				Len:           mem.Len,
				Comment:       mem.Comment,
			}
			switch {
			case mem.ArrayConstant != "":
				om.ArrayLength = b.arrayLength(mem.ArrayConstant)
			case mem.ElementCount > 1:
				om.ArrayLength = mem.ElementCount
			}
			if mem.TypeName == "VkStructureType" {
				om.Discriminator = discriminator
				if om.Discriminator == "" {
					om.Discriminator = mem.Values
				}
			}
			out.Members = append(out.Members, om)
		}
		b.s.Structs = append(b.s.Structs, out)
	}
}

// buildParams keeps one parameter per name at the position the name first
// appears, using its first declaration that is not excluded.
func (b *snapshotBuilder) buildParams(params []vkspec.Param) []Param {
	var order []string
	chosen := map[string]vkspec.Param{}
	known := map[string]bool{}
	for _, p := range params {
		if !known[p.Name] {
			known[p.Name] = true
			order = append(order, p.Name)
		}
		if _, ok := chosen[p.Name]; ok || b.m.excluded(p.API) {
			continue
		}
		chosen[p.Name] = p
	}
	out := make([]Param, 0, len(order))
	for _, name := range order {
		p, ok := chosen[name]
		if !ok {
			continue
		}
		out = append(out, Param{
			Name:        names.IdentifierSafe(p.Name),
			Type:        b.resolver.Resolve(p.TypeName, p.Pointer),
			IsConst:     p.IsConst,
			Optional:    p.Optional,
			Len:         p.Len,
			ExternSync:  p.ExternSync,
			ArrayLength: p.StaticArrayLength,
		})
	}
	return out
}

func (b *snapshotBuilder) concreteCommand(name string) string {
	for range vkspec.MaxAliasChain {
		cmd, ok := b.m.reg.Command(name)
		if !ok || cmd.Alias == "" {
			return name
		}
		name = cmd.Alias
	}
	return name
}

func (b *snapshotBuilder) buildCommands() {
	groups := map[string]int{}
	for _, name := range b.m.commands.names {
		cmd, ok := b.m.reg.Command(name)
		if !ok {
			debug.WPrintf("required command %s is not declared", name)
			continue
		}
		if b.m.excluded(cmd.API) {
			continue
		}
		out := Command{
			Name:         cmd.Name,
			ReturnType:   b.resolver.Resolve(cmd.ReturnType, 0),
			Params:       b.buildParams(cmd.AllParams),
			IsInstance:   cmd.IsInstance,
			Platform:     PlatformFamily(cmd.Name),
			Queues:       cmd.Queues,
			RenderPass:   cmd.RenderPass,
			SuccessCodes: cmd.SuccessCodes,
			ErrorCodes:   cmd.ErrorCodes,
		}
		if cmd.Alias != "" {
			out.Alias = b.concreteCommand(cmd.Alias)
		}
		if out.Platform == "" {
			out.Platform = b.m.cmdPlatform[cmd.Name]
		}
		b.s.Commands = append(b.s.Commands, out)

		family := out.Platform
		if family == "" {
			family = CoreFamily
		}
		i, ok := groups[family]
		if !ok {
			i = len(b.s.CommandGroups)
			groups[family] = i
			b.s.CommandGroups = append(b.s.CommandGroups, CommandGroup{Platform: family})
		}
		b.s.CommandGroups[i].Commands = append(b.s.CommandGroups[i].Commands, out.Name)
	}
}
