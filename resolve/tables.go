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

// basicTypes maps C spellings onto primitive names. A handful of small
// aggregates map onto themselves so they are never expanded.
var basicTypes = map[string]string{
	"int8_t":     "int8",
	"uint8_t":    "uint8",
	"char":       "char8",
	"int16_t":    "int16",
	"uint16_t":   "uint16",
	"int":        "int32",
	"int32_t":    "int32",
	"uint32_t":   "uint32",
	"DWORD":      "uint32",
	"int64_t":    "int64",
	"uint64_t":   "uint64",
	"size_t":     "uint",
	"float":      "float",
	"double":     "double",
	"void":       "void",
	"VkBool32":   "VkBool32",
	"VkExtent2D": "VkExtent2D",
	"VkOffset2D": "VkOffset2D",
	"VkRect2D":   "VkRect2D",
}

// opaqueTypes are platform and externally defined types that are only ever
// passed around as pointer sized values.
var opaqueTypes = map[string]struct{}{
	"Display":                                  {},
	"VisualID":                                 {},
	"Window":                                   {},
	"RROutput":                                 {},
	"wl_display":                               {},
	"wl_surface":                               {},
	"HINSTANCE":                                {},
	"HWND":                                     {},
	"HMONITOR":                                 {},
	"HANDLE":                                   {},
	"SECURITY_ATTRIBUTES":                      {},
	"DWORD":                                    {},
	"LPCWSTR":                                  {},
	"xcb_connection_t":                         {},
	"xcb_visualid_t":                           {},
	"xcb_window_t":                             {},
	"IDirectFB":                                {},
	"IDirectFBSurface":                         {},
	"zx_handle_t":                              {},
	"GgpStreamDescriptor":                      {},
	"GgpFrameToken":                            {},
	"CAMetalLayer":                             {},
	"AHardwareBuffer":                          {},
	"ANativeWindow":                            {},
	"_screen_context":                          {},
	"_screen_window":                           {},
	"StdVideoH264ProfileIdc":                   {},
	"StdVideoH264PictureParameterSet":          {},
	"StdVideoH264SequenceParameterSet":         {},
	"StdVideoDecodeH264PictureInfo":            {},
	"StdVideoDecodeH264ReferenceInfo":          {},
	"StdVideoDecodeH264Mvc":                    {},
	"StdVideoH265SequenceParameterSet":         {},
	"StdVideoH265PictureParameterSet":          {},
	"StdVideoDecodeH265PictureInfo":            {},
	"StdVideoDecodeH265ReferenceInfo":          {},
	"StdVideoEncodeH264PictureInfo":            {},
	"StdVideoEncodeH264SliceHeader":            {},
	"StdVideoH265ProfileIdc":                   {},
	"StdVideoEncodeH265PictureInfo":            {},
	"StdVideoEncodeH265ReferenceInfo":          {},
	"StdVideoEncodeH265ReferenceModifications": {},
	"StdVideoEncodeH265SliceHeader":            {},
	"StdVideoH265VideoParameterSet":            {},
}

// BasicType returns the primitive mapping of a C type name.
func BasicType(name string) (string, bool) {
	t, ok := basicTypes[name]
	return t, ok
}

func IsOpaque(name string) bool {
	_, ok := opaqueTypes[name]
	return ok
}
