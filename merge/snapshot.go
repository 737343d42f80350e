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

package merge

import (
	"goarrg.com/lib/vkgen/resolve"
	"goarrg.com/lib/vkgen/vkspec"
)

// CoreFamily groups commands that belong to no windowing system.
const CoreFamily = "core"

// Snapshot is the resolved model of one feature and extension selection. It
// is never modified after Merger.Snapshot returns it.
type Snapshot struct {
	API           string         `json:"api" yaml:"api"`
	Features      []string       `json:"features" yaml:"features"`
	Extensions    []string       `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Constants     []Constant     `json:"constants" yaml:"constants"`
	BaseTypes     []BaseType     `json:"baseTypes" yaml:"baseTypes"`
	Typedefs      []Typedef      `json:"typedefs" yaml:"typedefs"`
	Aliases       []Alias        `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	FuncPointers  []FuncPointer  `json:"funcPointers" yaml:"funcPointers"`
	Enums         []Enum         `json:"enums" yaml:"enums"`
	Structs       []Struct       `json:"structs" yaml:"structs"`
	Handles       []Handle       `json:"handles" yaml:"handles"`
	Commands      []Command      `json:"commands" yaml:"commands"`
	CommandGroups []CommandGroup `json:"commandGroups" yaml:"commandGroups"`
	// Unresolved lists every type name that fell back to nominal typing
	// without being declared.
	Unresolved []string `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

type Constant struct {
	Name string              `json:"name" yaml:"name"`
	Kind vkspec.ConstantKind `json:"-" yaml:"-"`
	// KindName is Kind spelled out for serialization.
	KindName string `json:"kind" yaml:"kind"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Alias    string `json:"alias,omitempty" yaml:"alias,omitempty"`
	// Target is the concrete constant at the end of the alias chain.
	Target  string `json:"target,omitempty" yaml:"target,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type BaseType struct {
	Name string       `json:"name" yaml:"name"`
	Type resolve.Type `json:"type" yaml:"type"`
}

type Typedef struct {
	Name string `json:"name" yaml:"name"`
	// Type is what uses of the typedef resolve to, the bits enumeration for
	// bitmasks that declare one.
	Type       resolve.Type `json:"type" yaml:"type"`
	Underlying resolve.Type `json:"underlying" yaml:"underlying"`
	Requires   string       `json:"requires,omitempty" yaml:"requires,omitempty"`
	Category   string       `json:"category,omitempty" yaml:"category,omitempty"`
}

type Alias struct {
	Name   string `json:"name" yaml:"name"`
	Target string `json:"target" yaml:"target"`
}

type Param struct {
	Name        string       `json:"name" yaml:"name"`
	Type        resolve.Type `json:"type" yaml:"type"`
	IsConst     bool         `json:"const,omitempty" yaml:"const,omitempty"`
	Optional    bool         `json:"optional,omitempty" yaml:"optional,omitempty"`
	Len         string       `json:"len,omitempty" yaml:"len,omitempty"`
	ExternSync  string       `json:"externSync,omitempty" yaml:"externSync,omitempty"`
	ArrayLength int          `json:"arrayLength,omitempty" yaml:"arrayLength,omitempty"`
}

type FuncPointer struct {
	Name       string       `json:"name" yaml:"name"`
	ReturnType resolve.Type `json:"returnType" yaml:"returnType"`
	Params     []Param      `json:"params" yaml:"params"`
}

type EnumValue struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Value       int64  `json:"value" yaml:"value"`
	Hex         string `json:"hex,omitempty" yaml:"hex,omitempty"`
	Alias       string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Comment     string `json:"comment,omitempty" yaml:"comment,omitempty"`
	// Synthetic marks the zero member added to enumerations without one.
	Synthetic bool `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

type Enum struct {
	Name        string          `json:"name" yaml:"name"`
	DisplayName string          `json:"displayName" yaml:"displayName"`
	Kind        vkspec.EnumKind `json:"-" yaml:"-"`
	Bitmask     bool            `json:"bitmask,omitempty" yaml:"bitmask,omitempty"`
	// Storage is one of uint32, int32 or uint64.
	Storage string      `json:"storage" yaml:"storage"`
	Comment string      `json:"comment,omitempty" yaml:"comment,omitempty"`
	Values  []EnumValue `json:"values" yaml:"values"`
}

type Member struct {
	Name string       `json:"name" yaml:"name"`
	Type resolve.Type `json:"type" yaml:"type"`
	// TypeName is the declared type name before resolution.
	TypeName string `json:"typeName" yaml:"typeName"`
	IsConst  bool   `json:"const,omitempty" yaml:"const,omitempty"`
	// ArrayLength is the inline array length, from literal dimensions or from
	// ArrayConstant, 0 for scalars.
	ArrayLength   int    `json:"arrayLength,omitempty" yaml:"arrayLength,omitempty"`
	ArrayConstant string `json:"arrayConstant,omitempty" yaml:"arrayConstant,omitempty"`
	BitField      int    `json:"bitField,omitempty" yaml:"bitField,omitempty"`
	Optional      bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Len           string `json:"len,omitempty" yaml:"len,omitempty"`
	// Discriminator is the default value of a structure type member.
	Discriminator string `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`
	Comment       string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type Struct struct {
	Name         string   `json:"name" yaml:"name"`
	Union        bool     `json:"union,omitempty" yaml:"union,omitempty"`
	ReturnedOnly bool     `json:"returnedOnly,omitempty" yaml:"returnedOnly,omitempty"`
	Extends      []string `json:"extends,omitempty" yaml:"extends,omitempty"`
	Comment      string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Members      []Member `json:"members" yaml:"members"`
}

type Handle struct {
	Name         string `json:"name" yaml:"name"`
	Dispatchable bool   `json:"dispatchable" yaml:"dispatchable"`
	// Storage is an opaque pointer for dispatchable handles and a 64-bit
	// integer otherwise.
	Storage    resolve.Type `json:"storage" yaml:"storage"`
	Parent     string       `json:"parent,omitempty" yaml:"parent,omitempty"`
	ObjectType string       `json:"objectType,omitempty" yaml:"objectType,omitempty"`
}

type Command struct {
	Name string `json:"name" yaml:"name"`
	// Alias is the concrete command an aliased command resolves to.
	Alias      string       `json:"alias,omitempty" yaml:"alias,omitempty"`
	ReturnType resolve.Type `json:"returnType" yaml:"returnType"`
	Params     []Param      `json:"params" yaml:"params"`
	IsInstance bool         `json:"instance" yaml:"instance"`
	// Platform is the windowing-system family, empty for core commands.
	Platform     string   `json:"platform,omitempty" yaml:"platform,omitempty"`
	Queues       []string `json:"queues,omitempty" yaml:"queues,omitempty"`
	RenderPass   string   `json:"renderPass,omitempty" yaml:"renderPass,omitempty"`
	SuccessCodes []string `json:"successCodes,omitempty" yaml:"successCodes,omitempty"`
	ErrorCodes   []string `json:"errorCodes,omitempty" yaml:"errorCodes,omitempty"`
}

type CommandGroup struct {
	Platform string   `json:"platform" yaml:"platform"`
	Commands []string `json:"commands" yaml:"commands"`
}

func find[T any](items []T, name string, nameOf func(*T) string) (*T, bool) {
	for i := range items {
		if nameOf(&items[i]) == name {
			return &items[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Enum(name string) (*Enum, bool) {
	return find(s.Enums, name, func(e *Enum) string { return e.Name })
}

func (s *Snapshot) Struct(name string) (*Struct, bool) {
	return find(s.Structs, name, func(st *Struct) string { return st.Name })
}

func (s *Snapshot) Command(name string) (*Command, bool) {
	return find(s.Commands, name, func(c *Command) string { return c.Name })
}

func (s *Snapshot) Constant(name string) (*Constant, bool) {
	return find(s.Constants, name, func(k *Constant) string { return k.Name })
}

func (s *Snapshot) Handle(name string) (*Handle, bool) {
	return find(s.Handles, name, func(h *Handle) string { return h.Name })
}
