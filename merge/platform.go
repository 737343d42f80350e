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

import "strings"

// platformFamilies is checked in order, FullScreenExclusive commands are
// Win32 only even though their names do not say so.
var platformFamilies = []struct {
	marker string
	family string
}{
	{"FullScreenExclusive", "win32"},
	{"Win32", "win32"},
	{"Xlib", "xlib"},
	{"Xcb", "xcb"},
	{"Wayland", "wayland"},
	{"Android", "android"},
	{"MacOS", "macos"},
	{"IOS", "ios"},
	{"Metal", "metal"},
	{"DirectFB", "directfb"},
	{"Fuchsia", "fuchsia"},
	{"ImagePipe", "fuchsia"},
	{"GGP", "ggp"},
	{"StreamDescriptor", "ggp"},
	{"ScreenSurface", "screen"},
	{"ScreenBuffer", "screen"},
	{"ViSurface", "vi"},
}

// PlatformFamily returns the windowing-system family of a command from its
// name, or "" when the name matches none.
func PlatformFamily(command string) string {
	for _, p := range platformFamilies {
		if strings.Contains(command, p.marker) {
			return p.family
		}
	}
	return ""
}
