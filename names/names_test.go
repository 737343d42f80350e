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

package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifierSafe(t *testing.T) {
	assert.Equal(t, "vkscope", IdentifierSafe("scope"))
	assert.Equal(t, "vkfunction", IdentifierSafe("function"))
	assert.Equal(t, "vkparams", IdentifierSafe("params"))
	assert.Equal(t, "pCreateInfo", IdentifierSafe("pCreateInfo"))
	assert.Equal(t, "Scope", IdentifierSafe("Scope"))
}

func TestDisplayName(t *testing.T) {
	testCases := []struct {
		description string
		name        string
		expect      string
	}{
		{description: "bitmask", name: "VkSampleCountFlagBits", expect: "VkSampleCountFlags"},
		{description: "64 bit bitmask", name: "VkAccessFlagBits2", expect: "VkAccessFlags2"},
		{description: "only first occurrence", name: "VkBitBit", expect: "VkBit"},
		{description: "upper case marker", name: "VK_FOO_BIT", expect: "VK_FOO_"},
		{description: "no marker", name: "VkResult", expect: "VkResult"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, DisplayName(testCase.name), testCase.description)
	}
}

func TestUpperSnake(t *testing.T) {
	testCases := []struct {
		description string
		name        string
		expect      string
	}{
		{description: "camel case", name: "VkSampleEnum", expect: "VK_SAMPLE_ENUM"},
		{description: "trailing version", name: "VkAccess2", expect: "VK_ACCESS_2"},
		{description: "acronym", name: "VkRGBAColor", expect: "VK_RGBA_COLOR"},
		{description: "already snake", name: "VK_RESULT", expect: "VK_RESULT"},
		{description: "plain", name: "SampleEnum", expect: "SAMPLE_ENUM"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, UpperSnake(testCase.name), testCase.description)
	}
}

func TestPrettyEnumValue(t *testing.T) {
	testCases := []struct {
		description string
		enum        string
		value       string
		expect      string
	}{
		{description: "display name", enum: "SampleEnum", value: "VK_SAMPLE_ENUM_FOO_BAR", expect: "eFooBar"},
		{description: "declared name", enum: "VkSampleEnum", value: "VK_SAMPLE_ENUM_FOO_BAR", expect: "eFooBar"},
		{description: "prefix mismatch", enum: "VK_RESULT", value: "VK_SUCCESS", expect: "eSuccess"},
		{description: "prefix mismatch two words", enum: "VK_RESULT", value: "VK_NOT_READY", expect: "eNotReady"},
		{description: "bit marker", enum: "VkSampleCountFlagBits", value: "VK_SAMPLE_COUNT_1_BIT", expect: "e1"},
		{description: "letter after digit", enum: "VkImageType", value: "VK_IMAGE_TYPE_2D", expect: "e2d"},
		{description: "digit leading word", enum: "VkFoo", value: "VK_FOO_3D_IMAGE", expect: "e3dImage"},
		{description: "letter digit pairs", enum: "VkFormat", value: "VK_FORMAT_R8G8B8A8_UNORM", expect: "eR8G8B8A8Unorm"},
		{description: "versioned flags", enum: "VkAccessFlagBits2", value: "VK_ACCESS_2_SHADER_READ_BIT", expect: "eShaderRead"},
		{description: "synthetic none", enum: "VkSampleCountFlagBits", value: "None", expect: "eNone"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, PrettyEnumValue(testCase.enum, testCase.value), testCase.description)
	}
}

func TestNamerTags(t *testing.T) {
	n := NewNamer([]string{"KHR", "EXT", "NV"})
	assert.Equal(t, "VK_CULL_MODE", n.EnumPrefix("VkCullModeFlagBits"))
	assert.Equal(t, "VK_PRESENT_MODE", n.EnumPrefix("VkPresentModeKHR"))
	assert.Equal(t, "eErrorSurfaceLostKHR", n.EnumValue("VkResult", "VK_ERROR_SURFACE_LOST_KHR"))
	assert.Equal(t, "eReserved2KHR", n.EnumValue("VkCullModeFlagBits", "VK_CULL_MODE_RESERVED_2_BIT_KHR"))
	assert.Equal(t, "eImmediateKHR", n.EnumValue("VkPresentModeKHR", "VK_PRESENT_MODE_IMMEDIATE_KHR"))
	assert.Equal(t, "eNoneKHR", n.EnumValue("VkAccessFlagBits2", "VK_ACCESS_2_NONE_KHR"))
	assert.Equal(t, "VK_PIPELINE_CREATE_2", n.EnumPrefix("VkPipelineCreateFlagBits2KHR"))
	assert.Equal(t, "eDisableOptimizationKHR", n.EnumValue("VkPipelineCreateFlagBits2KHR", "VK_PIPELINE_CREATE_2_DISABLE_OPTIMIZATION_BIT_KHR"))
	assert.Equal(t, "eTransferSrcKHR", n.EnumValue("VkBufferUsageFlagBits2KHR", "VK_BUFFER_USAGE_2_TRANSFER_SRC_BIT_KHR"))
	assert.Equal(t, "VK_FOO", n.EnumPrefix("VK_FOO_KHR"))

	plain := NewNamer(nil)
	assert.Equal(t, "eErrorSurfaceLostKhr", plain.EnumValue("VkResult", "VK_ERROR_SURFACE_LOST_KHR"))
}
