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
	"regexp"
	"strconv"
	"strings"

	"goarrg.com/debug"
)

var (
	arraySubscriptRe = regexp.MustCompile(`\[(\d+)\]$`)
	arrayDimRe       = regexp.MustCompile(`\[\s*(\w+)\s*\]`)
	bitFieldRe       = regexp.MustCompile(`:\s*(\d+)$`)
	funcPointerRe    = regexp.MustCompile(`^typedef\s+(.+?)\s*\(\s*VKAPI_PTR\s*\*\s*(\w+)\s*\)\s*\((.*)\)\s*;?$`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

func normalizeDecl(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// pointerDepth counts the indirection applied to typeName in a C
// declaration, "T**" and "T* const*" are double pointers.
func pointerDepth(decl, typeName string) int {
	switch {
	case strings.Contains(decl, typeName+"**"), strings.Contains(decl, typeName+"* const*"):
		return 2
	case strings.Contains(decl, typeName+"*"):
		return 1
	}
	return 0
}

func isConstDecl(decl, typeName string) bool {
	i := strings.Index(decl, typeName)
	if i < 0 {
		return false
	}
	return strings.Contains(decl[:i], "const")
}

// staticArrayLength returns the length of a trailing "[N]" subscript.
func staticArrayLength(decl string) (int, bool) {
	m := arraySubscriptRe.FindStringSubmatch(strings.TrimSpace(decl))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// elementCount multiplies every literal array dimension of decl, dimensions
// named by a constant are left to the caller.
func elementCount(decl string) int {
	count := 1
	for _, m := range arrayDimRe.FindAllStringSubmatch(decl, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			count *= n
		}
	}
	return count
}

func bitFieldWidth(decl string) int {
	m := bitFieldRe.FindStringSubmatch(strings.TrimSpace(decl))
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// parseCParam parses a single C parameter such as "const VkFoo* pFoo".
func parseCParam(decl string) (Param, bool) {
	decl = normalizeDecl(decl)
	if decl == "" || decl == "void" {
		return Param{}, false
	}
	p := Param{}
	if n, ok := staticArrayLength(decl); ok {
		p.IsStaticArray = true
		p.StaticArrayLength = n
		decl = strings.TrimSpace(decl[:strings.LastIndex(decl, "[")])
	}
	fields := strings.Fields(strings.ReplaceAll(decl, "*", " * "))
	if len(fields) < 2 {
		return Param{}, false
	}
	p.Name = fields[len(fields)-1]
	for _, f := range fields[:len(fields)-1] {
		switch f {
		case "const":
			if p.TypeName == "" {
				p.IsConst = true
			}
		case "*":
			p.Pointer++
		case "struct":
		default:
			p.TypeName = f
		}
	}
	return p, p.TypeName != ""
}

// parseCReturn splits a return type spelling like "void*" into its name and
// pointer depth.
func parseCReturn(decl string) (string, int) {
	decl = normalizeDecl(decl)
	ptr := strings.Count(decl, "*")
	name := ""
	for _, f := range strings.Fields(strings.ReplaceAll(decl, "*", " ")) {
		if f != "const" && f != "struct" {
			name = f
		}
	}
	return name, ptr
}

// parseEnumLiteral decodes a decimal or hexadecimal enumerant value, hex
// spellings are returned verbatim minus their unsigned/long suffix.
func parseEnumLiteral(value string) (int64, string, error) {
	value = strings.TrimSpace(value)
	for strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		value = strings.TrimSpace(value[1 : len(value)-1])
	}
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		hex := strings.TrimRight(value, "uUlL")
		v, err := strconv.ParseUint(hex[2:], 16, 64)
		if err != nil {
			return 0, "", debug.ErrorWrapf(err, "invalid hex value %q", value)
		}
		return int64(v), hex, nil
	}
	v, err := strconv.ParseInt(strings.TrimRight(value, "uUlL"), 10, 64)
	if err != nil {
		return 0, "", debug.ErrorWrapf(err, "invalid value %q", value)
	}
	return v, "", nil
}

// extensionEnumValue computes the value of an enumerant given in offset form.
func extensionEnumValue(extNumber, offset int, negative bool) int64 {
	v := int64(1000000000) + int64(extNumber-1)*1000 + int64(offset)
	if negative {
		return -v
	}
	return v
}

func constantKind(typeAttr, value string) ConstantKind {
	switch typeAttr {
	case "uint32_t":
		return ConstantUInt32
	case "uint64_t":
		return ConstantUInt64
	case "float":
		return ConstantFloat32
	case "char":
		return ConstantString
	}
	v := strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(v, `"`):
		return ConstantString
	case strings.Contains(v, "ULL"):
		return ConstantUInt64
	case strings.Contains(v, ".") && strings.HasSuffix(strings.TrimRight(v, ")"), "F"),
		strings.Contains(v, ".") && strings.HasSuffix(strings.TrimRight(v, ")"), "f"):
		return ConstantFloat32
	}
	return ConstantUInt32
}
