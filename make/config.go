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
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"goarrg.com/debug"
	"goarrg.com/lib/vkgen/merge"
	"goarrg.com/lib/vkgen/vkspec"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Config struct {
	ForceRebuild bool `yaml:"forceRebuild"`
	// Spec is the path or URL of vk.xml, DefaultSpecPath when empty.
	Spec          string   `yaml:"spec"`
	API           string   `yaml:"api"`
	Version       string   `yaml:"version"`
	Extensions    []string `yaml:"extensions"`
	AllExtensions bool     `yaml:"allExtensions"`
	ExcludeAPIs   []string `yaml:"excludeAPIs"`
	Strict        bool     `yaml:"strict"`
	Output        string   `yaml:"output"`
	// Format is FormatJSON or FormatYAML, taken from Output's extension when
	// empty.
	Format string `yaml:"format"`

	// url is where the config was loaded from, it takes part in the
	// staleness check of Gen.
	url string
}

// LoadConfig reads a YAML config file from a path or URL, relative Spec and
// Output locations are taken relative to the config.
func LoadConfig(ctx context.Context, URL string) (Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return Config{}, debug.ErrorWrapf(err, "failed to read config")
	}
	c := Config{}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, debug.ErrorWrapf(err, "failed to parse config %s", URL)
	}
	base := baseDir(URL)
	c.Spec = relativeTo(base, c.Spec)
	c.Output = relativeTo(base, c.Output)
	c.url = URL
	return c, c.validate()
}

func isURL(location string) bool {
	return strings.Contains(location, "://")
}

func baseDir(URL string) string {
	if isURL(URL) {
		parent, _ := url.Split(URL, "file")
		return parent
	}
	return filepath.Dir(URL)
}

func relativeTo(base, location string) string {
	if location == "" || isURL(location) || filepath.IsAbs(location) {
		return location
	}
	if isURL(base) {
		return url.Join(base, location)
	}
	return filepath.Join(base, location)
}

func (c Config) format() string {
	if c.Format != "" {
		return c.Format
	}
	switch strings.ToLower(filepath.Ext(c.Output)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func (c Config) validate() error {
	switch c.format() {
	case FormatJSON, FormatYAML:
	default:
		return debug.Errorf("unknown output format %q", c.Format)
	}
	if c.AllExtensions && len(c.Extensions) > 0 {
		return debug.Errorf("allExtensions and extensions are mutually exclusive")
	}
	return nil
}

func (c Config) loadOptions() vkspec.LoadOptions {
	return vkspec.LoadOptions{API: c.API, Strict: c.Strict}
}

func (c Config) mergeOptions() merge.Options {
	return merge.Options{
		API:           c.API,
		Version:       c.Version,
		Extensions:    c.Extensions,
		AllExtensions: c.AllExtensions,
		ExcludeAPIs:   c.ExcludeAPIs,
	}
}
