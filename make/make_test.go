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

package vkgen

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testSpec(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "testdata", "vk.xml"))
	require.NoError(t, err)
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vkgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
spec: `+testSpec(t)+`
api: vulkan
version: VK_VERSION_1_1
extensions:
  - VK_KHR_surface
output: out/snapshot.yml
forceRebuild: true
`), 0o644))

	c, err := LoadConfig(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, testSpec(t), c.Spec)
	assert.Equal(t, "vulkan", c.API)
	assert.Equal(t, "VK_VERSION_1_1", c.Version)
	assert.Equal(t, []string{"VK_KHR_surface"}, c.Extensions)
	assert.Equal(t, filepath.Join(dir, "out", "snapshot.yml"), c.Output)
	assert.Equal(t, FormatYAML, c.format())
	assert.True(t, c.ForceRebuild)
	assert.Equal(t, path, c.url)
}

func TestLoadConfigErrors(t *testing.T) {
	testCases := []struct {
		description string
		content     string
	}{
		{description: "malformed yaml", content: "extensions: [a"},
		{description: "unknown format", content: "format: toml"},
		{description: "conflicting selection", content: "allExtensions: true\nextensions: [VK_KHR_surface]"},
	}
	for _, testCase := range testCases {
		path := filepath.Join(t.TempDir(), "vkgen.yaml")
		require.NoError(t, os.WriteFile(path, []byte(testCase.content), 0o644))
		_, err := LoadConfig(context.Background(), path)
		assert.Error(t, err, testCase.description)
	}
	_, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	reg, s, err := Load(context.Background(), Config{Spec: testSpec(t), Extensions: []string{"VK_KHR_surface"}})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Commands)
	assert.Equal(t, []string{"VK_KHR_surface"}, s.Extensions)

	_, _, err = Load(context.Background(), Config{Spec: testSpec(t), Extensions: []string{"VK_EXT_disabled_feature"}})
	assert.Error(t, err)
	_, _, err = Load(context.Background(), Config{Spec: filepath.Join(t.TempDir(), "vk.xml")})
	assert.Error(t, err)
}

func TestGenJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gen", "snapshot.json")
	c := Config{Spec: testSpec(t), Output: out, AllExtensions: true}

	wrote, err := Gen(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := map[string]any{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "vulkan", doc["api"])
	assert.Len(t, doc["extensions"], 3)

	wrote, err = Gen(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, wrote)

	c.ForceRebuild = true
	wrote, err = Gen(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, wrote)
}

func TestGenYAML(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "snapshot.yaml")
	cfg := filepath.Join(dir, "vkgen.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("spec: "+testSpec(t)+"\noutput: snapshot.yaml\n"), 0o644))
	c, err := LoadConfig(context.Background(), cfg)
	require.NoError(t, err)

	wrote, err := Gen(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := struct {
		API      string `yaml:"api"`
		Commands []struct {
			Name       string `yaml:"name"`
			ReturnType string `yaml:"returnType"`
		} `yaml:"commands"`
	}{}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "vulkan", doc.API)
	require.NotEmpty(t, doc.Commands)
	assert.Equal(t, "vkCreateInstance", doc.Commands[0].Name)
	assert.Equal(t, "VkResult", doc.Commands[0].ReturnType)

	// a config edited after the output was written makes it stale
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(cfg, future, future))
	wrote, err = Gen(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, wrote)
}

func TestGenRequiresOutput(t *testing.T) {
	_, err := Gen(context.Background(), Config{Spec: testSpec(t)})
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	r, err := Check(context.Background(), Config{Spec: testSpec(t), AllExtensions: true})
	require.NoError(t, err)
	assert.True(t, r.OK())

	path := filepath.Join(t.TempDir(), "vk.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<registry>
	<types>
		<type category="struct" name="VkThing">
			<member><type>VkUndeclared</type> <name>value</name></member>
		</type>
		<type category="struct" name="VkBroken">
			<member><name>missingType</name></member>
		</type>
	</types>
	<feature api="vulkan" name="VK_VERSION_1_0"><require><type name="VkThing"/></require></feature>
	</registry>`), 0o644))
	r, err = Check(context.Background(), Config{Spec: path})
	require.NoError(t, err)
	assert.False(t, r.OK())
	assert.Len(t, r.Skipped, 1)
	assert.Equal(t, []string{"VkUndeclared"}, r.Unresolved)

	_, err = Check(context.Background(), Config{Spec: path, Strict: true})
	assert.Error(t, err)
}
