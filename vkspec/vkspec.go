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
	"strings"
)

type ConstantKind int

const (
	ConstantUInt32 ConstantKind = iota
	ConstantUInt64
	ConstantFloat32
	ConstantString
)

func (k ConstantKind) String() string {
	switch k {
	case ConstantUInt32:
		return "uint32"
	case ConstantUInt64:
		return "uint64"
	case ConstantFloat32:
		return "float32"
	case ConstantString:
		return "string"
	default:
		return "unknown"
	}
}

// Constant is an API constant, either defined by a literal Value or naming
// another constant through Alias. Exactly one of the two is set.
type Constant struct {
	Name    string
	Kind    ConstantKind
	Value   string
	Alias   string
	Comment string
}

// Literal returns Value with enclosing parentheses and C literal suffixes
// removed, "(~0ULL)" becomes "~0" and "1000.0F" becomes "1000.0".
func (c Constant) Literal() string {
	v := strings.TrimSpace(c.Value)
	for strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	if c.Kind == ConstantString {
		return v
	}
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		return strings.TrimRight(v, "uUlL")
	}
	return strings.TrimRight(v, "uUlLfF")
}

type TypeAlias struct {
	Name     string
	Target   string
	Category string
}

// BaseType maps a logical type name onto the primitive spelling it is
// declared with.
type BaseType struct {
	Name    string
	Type    string
	Pointer int
}

type Typedef struct {
	Name     string
	Type     string
	Requires string
	Category string
	API      string
}

type EnumKind int

const (
	EnumPlain EnumKind = iota
	EnumBitmask
)

func (k EnumKind) String() string {
	if k == EnumBitmask {
		return "bitmask"
	}
	return "enum"
}

type EnumValueKind int

const (
	EnumValueLiteral EnumValueKind = iota
	EnumValueBitPos
	EnumValueAlias
)

type EnumValue struct {
	Name string
	Kind EnumValueKind
	// Value is the numeric value, for EnumValueBitPos it is 1<<BitPos and for
	// EnumValueAlias it is zero until the alias is resolved.
	Value int64
	// Hex preserves a hexadecimal spelling without its integer suffix.
	Hex     string
	BitPos  int
	Alias   string
	Comment string
	API     string
}

type Enum struct {
	Name     string
	Kind     EnumKind
	BitWidth int
	Comment  string
	Values   []EnumValue
}

type Handle struct {
	Name         string
	Dispatchable bool
	Parent       string
	Alias        string
	ObjectType   string
	API          string
}

type Member struct {
	Name     string
	TypeName string
	Pointer  int
	IsConst  bool
	// ElementCount is the product of all literal array dimensions, 1 for
	// scalars.
	ElementCount  int
	ArrayConstant string
	// BitField is the declared bit-field width, 0 when the member is not a
	// bit-field.
	BitField       int
	API            string
	Optional       bool
	Len            string
	Values         string
	NoAutoValidity bool
	Comment        string
}

type Struct struct {
	Name         string
	Union        bool
	ReturnedOnly bool
	Extends      []string
	Comment      string
	API          string
	Members      []Member
}

type Param struct {
	Name              string
	TypeName          string
	Pointer           int
	IsConst           bool
	API               string
	ExternSync        string
	Len               string
	NoAutoValidity    bool
	Optional          bool
	IsStaticArray     bool
	StaticArrayLength int
}

type Command struct {
	ReturnType string
	Name       string
	Alias      string
	Params     []Param
	// AllParams holds every declared parameter in document order, api
	// variants of one name included.
	AllParams      []Param
	Queues         []string
	RenderPass     string
	CmdBufferLevel []string
	Pipeline       string
	SuccessCodes   []string
	ErrorCodes     []string
	Export         []string
	API            string
	Comment        string
	// IsInstance is set when a parameter named "instance" has the VkInstance
	// type.
	IsInstance bool
}

type FuncPointer struct {
	Name          string
	ReturnType    string
	ReturnPointer int
	Requires      string
	Params        []Param
}

type Platform struct {
	Name    string
	Protect string
	Comment string
}

type Tag struct {
	Name    string
	Author  string
	Contact string
}

// RequireEnum is an <enum> referenced from a require block. Value is set when
// the block extends an enumeration, Constant when it defines a new API
// constant; both are nil for a plain reference.
type RequireEnum struct {
	Name     string
	Extends  string
	Value    *EnumValue
	Constant *Constant
}

type Require struct {
	API      string
	Depends  string
	Comment  string
	Types    []string
	Commands []string
	Enums    []RequireEnum
}

type Feature struct {
	Name     string
	API      []string
	Number   string
	Comment  string
	Requires []Require
}

type Extension struct {
	Name        string
	Number      int
	Kind        string
	Platform    string
	Supported   []string
	Promoted    string
	Deprecated  string
	Obsoleted   string
	Provisional bool
	Depends     []string
	Requires    []Require
}

// SupportedBy reports whether api is listed in the extension's supported
// attribute.
func (e Extension) SupportedBy(api string) bool {
	return apiListed(e.Supported, api)
}

func apiListed(list []string, api string) bool {
	for _, a := range list {
		if a == api {
			return true
		}
	}
	return false
}

// SplitAPI splits a comma separated api attribute.
func SplitAPI(attr string) []string {
	if attr == "" {
		return nil
	}
	return strings.Split(attr, ",")
}

// APIMatches reports whether an api attribute applies to api, an empty
// attribute applies to every API.
func APIMatches(attr, api string) bool {
	if attr == "" {
		return true
	}
	return apiListed(SplitAPI(attr), api)
}
