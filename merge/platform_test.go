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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformFamily(t *testing.T) {
	testCases := []struct {
		description string
		command     string
		expect      string
	}{
		{description: "xlib", command: "vkCreateXlibSurfaceKHR", expect: "xlib"},
		{description: "xcb", command: "vkGetPhysicalDeviceXcbPresentationSupportKHR", expect: "xcb"},
		{description: "wayland", command: "vkCreateWaylandSurfaceKHR", expect: "wayland"},
		{description: "win32", command: "vkCreateWin32SurfaceKHR", expect: "win32"},
		{description: "full screen is win32", command: "vkAcquireFullScreenExclusiveModeEXT", expect: "win32"},
		{description: "android", command: "vkGetAndroidHardwareBufferPropertiesANDROID", expect: "android"},
		{description: "metal", command: "vkExportMetalObjectsEXT", expect: "metal"},
		{description: "fuchsia image pipe", command: "vkCreateImagePipeSurfaceFUCHSIA", expect: "fuchsia"},
		{description: "ggp", command: "vkCreateStreamDescriptorSurfaceGGP", expect: "ggp"},
		{description: "vi", command: "vkCreateViSurfaceNN", expect: "vi"},
		{description: "core", command: "vkCreateInstance", expect: ""},
		{description: "surface is core", command: "vkDestroySurfaceKHR", expect: ""},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, PlatformFamily(testCase.command), testCase.description)
	}
}
