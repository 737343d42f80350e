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

package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/lib/vkgen/vkspec"
)

type fakeSource struct {
	aliases  map[string]string
	bases    map[string]vkspec.BaseType
	typedefs map[string]vkspec.Typedef
	declared map[string]bool
}

func (s fakeSource) Alias(name string) (string, bool) {
	t, ok := s.aliases[name]
	return t, ok
}

func (s fakeSource) BaseType(name string) (vkspec.BaseType, bool) {
	b, ok := s.bases[name]
	return b, ok
}

func (s fakeSource) Typedef(name string) (vkspec.Typedef, bool) {
	t, ok := s.typedefs[name]
	return t, ok
}

func (s fakeSource) Declared(name string) bool {
	return s.declared[name]
}

type report struct {
	name string
	err  error
}

func newRecordingResolver(src Source) (*Resolver, *[]report) {
	reports := &[]report{}
	r := New(src)
	r.Unresolved = func(name string, err error) {
		*reports = append(*reports, report{name: name, err: err})
	}
	return r, reports
}

func TestResolveBasicTypes(t *testing.T) {
	r := New(fakeSource{})
	for name, expect := range basicTypes {
		if IsOpaque(name) {
			continue
		}
		for k := 0; k < 3; k++ {
			got := r.Resolve(name, k)
			assert.Equal(t, expect+strings.Repeat("*", k), got.String(), name)
			assert.Equal(t, Primitive, got.Kind, name)
		}
	}
}

func TestResolveFixedShapes(t *testing.T) {
	r, reports := newRecordingResolver(fakeSource{})
	for name := range opaqueTypes {
		for k := 0; k < 3; k++ {
			got := r.Resolve(name, k)
			assert.Equal(t, "void*", got.String(), name)
			assert.Equal(t, Opaque, got.Kind, name)
		}
	}

	got := r.Resolve("PFN_vkAllocationFunction", 2)
	assert.Equal(t, Type{Name: "void", Pointer: 1, Kind: FuncPointer}, got)

	got = r.Resolve(`"VK_KHR_surface"`, 0)
	assert.Equal(t, Type{Name: "char8", Pointer: 1, Kind: String}, got)

	// DWORD is in both tables, the opaque one wins
	assert.Equal(t, "void*", r.Resolve("DWORD", 0).String())
	assert.Empty(t, *reports)
}

func TestResolveIndirection(t *testing.T) {
	src := fakeSource{
		aliases: map[string]string{
			"VkA":      "VkB",
			"VkC":      "VkA",
			"uint32_t": "uint64_t",
			"VkLoopA":  "VkLoopB",
			"VkLoopB":  "VkLoopA",
		},
		bases: map[string]vkspec.BaseType{
			"VkB":       {Name: "VkB", Type: "uint32_t"},
			"VkFlags":   {Name: "VkFlags", Type: "uint32_t"},
			"VkPtr":     {Name: "VkPtr", Type: "void", Pointer: 1},
			"VkWrapped": {Name: "VkWrapped", Type: "VkB"},
		},
		typedefs: map[string]vkspec.Typedef{
			"VkFooFlags":  {Name: "VkFooFlags", Type: "VkFlags", Requires: "VkFooFlagBits"},
			"VkBarFlags":  {Name: "VkBarFlags", Type: "VkFlags"},
			"VkChained":   {Name: "VkChained", Type: "VkBarFlags"},
			"VkToNominal": {Name: "VkToNominal", Type: "VkStruct"},
		},
		declared: map[string]bool{"VkStruct": true},
	}
	r, reports := newRecordingResolver(src)

	testCases := []struct {
		description string
		name        string
		pointer     int
		expect      Type
	}{
		{description: "basic type precedes alias", name: "uint32_t", expect: Type{Name: "uint32", Kind: Primitive}},
		{description: "alias to base type", name: "VkA", expect: Type{Name: "uint32", Kind: Primitive}},
		{description: "alias chain", name: "VkC", pointer: 1, expect: Type{Name: "uint32", Pointer: 1, Kind: Primitive}},
		{description: "base type", name: "VkB", expect: Type{Name: "uint32", Kind: Primitive}},
		{description: "pointer base type", name: "VkPtr", pointer: 1, expect: Type{Name: "void", Pointer: 2, Kind: Primitive}},
		{description: "base type of base type", name: "VkWrapped", expect: Type{Name: "uint32", Kind: Primitive}},
		{description: "typedef override", name: "VkFooFlags", pointer: 1, expect: Type{Name: "VkFooFlagBits", Pointer: 1, Kind: Override}},
		{description: "typedef to base type", name: "VkBarFlags", expect: Type{Name: "uint32", Kind: Primitive}},
		{description: "typedef chain", name: "VkChained", expect: Type{Name: "uint32", Kind: Primitive}},
		{description: "typedef to nominal", name: "VkToNominal", expect: Type{Name: "VkStruct", Kind: Nominal}},
		{description: "declared nominal", name: "VkStruct", pointer: 2, expect: Type{Name: "VkStruct", Pointer: 2, Kind: Nominal}},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, r.Resolve(testCase.name, testCase.pointer), testCase.description)
	}
	assert.Empty(t, *reports)

	got := r.Resolve("VkMystery", 1)
	assert.Equal(t, Type{Name: "VkMystery", Pointer: 1, Kind: Nominal}, got)
	require.Len(t, *reports, 1)
	assert.Equal(t, "VkMystery", (*reports)[0].name)
	assert.ErrorIs(t, (*reports)[0].err, ErrUnresolved)

	*reports = nil
	got = r.Resolve("VkLoopA", 0)
	assert.Equal(t, Type{Name: "VkLoopA", Kind: Nominal}, got)
	require.Len(t, *reports, 1)
	assert.ErrorIs(t, (*reports)[0].err, ErrAliasCycle)
}

func TestResolveRegistry(t *testing.T) {
	reg, err := vkspec.LoadFile("../testdata/vk.xml", vkspec.LoadOptions{Strict: true})
	require.NoError(t, err)
	r, reports := newRecordingResolver(reg)

	testCases := []struct {
		description string
		name        string
		pointer     int
		expect      string
	}{
		{description: "bitmask with bit values", name: "VkSampleCountFlags", expect: "VkSampleCountFlagBits"},
		{description: "aliased 64-bit bitmask", name: "VkAccessFlags2KHR", expect: "VkAccessFlagBits2"},
		{description: "reserved bitmask", name: "VkInstanceCreateFlags", expect: "uint32"},
		{description: "aliased reserved bitmask", name: "VkCommandPoolTrimFlagsKHR", expect: "uint32"},
		{description: "device size", name: "VkDeviceSize", pointer: 1, expect: "uint64*"},
		{description: "bool", name: "VkBool32", expect: "VkBool32"},
		{description: "size", name: "size_t", expect: "uint"},
		{description: "struct", name: "VkApplicationInfo", pointer: 1, expect: "VkApplicationInfo*"},
		{description: "struct alias", name: "VkTransformMatrixNV", expect: "VkTransformMatrixKHR"},
		{description: "handle", name: "VkInstance", pointer: 1, expect: "VkInstance*"},
		{description: "platform type", name: "Display", pointer: 1, expect: "void*"},
		{description: "pointer base type", name: "VkRemoteAddressNV", expect: "void*"},
		{description: "function pointer", name: "PFN_vkAllocationFunction", expect: "void*"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, r.Resolve(testCase.name, testCase.pointer).String(), testCase.description)
	}
	assert.Empty(t, *reports)
}
