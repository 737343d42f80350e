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

// Package vkgen loads vk.xml, merges the configured selection and writes the
// resolved snapshot for emitters to consume.
package vkgen

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"

	"goarrg.com/debug"
	"goarrg.com/lib/vkgen/merge"
	"goarrg.com/lib/vkgen/vkspec"
	"goarrg.com/toolchain"
	"goarrg.com/toolchain/cgodep"
)

func vkDocsInstallDir() string {
	return cgodep.InstallDir("vulkan-docs", toolchain.Target{}, toolchain.BuildRelease)
}

// DefaultSpecPath is the vk.xml of the installed vulkan-docs dependency.
func DefaultSpecPath() string {
	return filepath.Join(vkDocsInstallDir(), "xml", "vk.xml")
}

func specURL(c Config) (string, error) {
	if c.Spec != "" {
		return c.Spec, nil
	}
	version := cgodep.ReadVersion(vkDocsInstallDir())
	if version == "" {
		return "", debug.Errorf("Vulkan-docs not found")
	}
	debug.IPrintf("Using vulkan-docs %s", version)
	return DefaultSpecPath(), nil
}

// Load reads the configured spec and merges the configured selection.
func Load(ctx context.Context, c Config) (*vkspec.Registry, *merge.Snapshot, error) {
	if err := c.validate(); err != nil {
		return nil, nil, err
	}
	URL, err := specURL(c)
	if err != nil {
		return nil, nil, err
	}
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, nil, debug.ErrorWrapf(err, "failed to read %s", URL)
	}
	reg, err := vkspec.Load(bytes.NewReader(data), c.loadOptions())
	if err != nil {
		return nil, nil, debug.ErrorWrapf(err, "failed to load %s", URL)
	}
	debug.IPrintf("Loaded %s: %d enums, %d structs, %d commands, %d extensions",
		URL, len(reg.Enums), len(reg.Structs), len(reg.Commands), len(reg.Extensions))
	s, err := merge.Merge(reg, c.mergeOptions())
	if err != nil {
		return nil, nil, debug.ErrorWrapf(err, "failed to merge %s", URL)
	}
	return reg, s, nil
}

// scanModTime returns the latest modification time of URLs, a location
// without one fails the scan.
func scanModTime(ctx context.Context, fs afs.Service, URLs ...string) (time.Time, error) {
	latestMod := time.Unix(0, 0)
	for _, URL := range URLs {
		if URL == "" {
			continue
		}
		object, err := fs.Object(ctx, URL)
		if err != nil {
			return latestMod, err
		}
		mod := object.ModTime()
		if mod.IsZero() {
			return latestMod, debug.Errorf("%s has no modification time", URL)
		}
		if mod.After(latestMod) {
			latestMod = mod
		}
	}
	return latestMod, nil
}

// upToDate reports whether output is newer than every input.
func upToDate(ctx context.Context, output string, inputs ...string) bool {
	fs := afs.New()
	object, err := fs.Object(ctx, output)
	if err != nil {
		return false
	}
	latestMod, err := scanModTime(ctx, fs, inputs...)
	if err != nil {
		return false
	}
	return object.ModTime().After(latestMod)
}

// Gen writes the snapshot to c.Output. Unless c.ForceRebuild is set nothing is
// loaded when the output is newer than the spec and the config, the returned
// bool reports whether the output was written.
func Gen(ctx context.Context, c Config) (bool, error) {
	if c.Output == "" {
		return false, debug.Errorf("no output path configured")
	}
	URL, err := specURL(c)
	if err != nil {
		return false, err
	}
	if !c.ForceRebuild && upToDate(ctx, c.Output, URL, c.url) {
		debug.IPrintf("%s is up to date", c.Output)
		return false, nil
	}

	c.Spec = URL
	_, s, err := Load(ctx, c)
	if err != nil {
		return false, err
	}
	if err := writeSnapshot(ctx, c.Output, c.format(), s); err != nil {
		return false, debug.ErrorWrapf(err, "failed to write %s", c.Output)
	}
	debug.IPrintf("Wrote %s: %d enums, %d structs, %d commands",
		c.Output, len(s.Enums), len(s.Structs), len(s.Commands))
	return true, nil
}

func encodeSnapshot(format string, s *merge.Snapshot) ([]byte, error) {
	buf := bytes.Buffer{}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "\t")
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeSnapshot(ctx context.Context, URL, format string, s *merge.Snapshot) error {
	data, err := encodeSnapshot(format, s)
	if err != nil {
		return err
	}
	if !isURL(URL) {
		if err := os.MkdirAll(filepath.Dir(URL), 0o755); err != nil {
			return err
		}
	}
	return afs.New().Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data))
}

// Report lists what a permissive load dropped and which type names the
// merged selection could not resolve.
type Report struct {
	Skipped    []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Unresolved []string `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

func (r Report) OK() bool {
	return len(r.Skipped) == 0 && len(r.Unresolved) == 0
}

// Check loads and merges like Gen without writing anything.
func Check(ctx context.Context, c Config) (Report, error) {
	reg, s, err := Load(ctx, c)
	if err != nil {
		return Report{}, err
	}
	r := Report{Unresolved: s.Unresolved}
	for _, err := range reg.Skipped {
		r.Skipped = append(r.Skipped, err.Error())
	}
	for _, name := range r.Unresolved {
		debug.WPrintf("Unresolved type %s", name)
	}
	return r, nil
}
