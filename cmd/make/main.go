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

package main

import (
	"context"
	"os"

	"github.com/jessevdk/go-flags"

	"goarrg.com/debug"
	vkgen "goarrg.com/lib/vkgen/make"
)

type options struct {
	Config        string   `short:"c" long:"config" description:"YAML config file path or URL"`
	Spec          string   `short:"s" long:"spec" description:"path or URL of vk.xml, defaults to the installed vulkan-docs"`
	API           string   `short:"a" long:"api" description:"API variant, vulkan or vulkansc"`
	Version       string   `short:"v" long:"version" description:"last core version to merge"`
	Extensions    []string `short:"e" long:"ext" description:"extension to merge, may be repeated"`
	AllExtensions bool     `long:"all" description:"merge every extension supported by the API"`
	ExcludeAPIs   []string `short:"x" long:"exclude" description:"API variant to drop from members and parameters"`
	Strict        bool     `long:"strict" description:"fail on the first malformed entity"`
	Output        string   `short:"o" long:"out" description:"snapshot output path"`
	Format        string   `short:"f" long:"format" description:"json or yaml"`
	ForceRebuild  bool     `long:"force" description:"regenerate even when the output is up to date"`
}

type command func(context.Context, []string) error

func main() {
	commands := map[string]command{
		"gen":   gen,
		"check": check,
	}
	ctx := context.Background()
	var err error
	if len(os.Args) > 1 {
		if cmd, ok := commands[os.Args[1]]; ok {
			err = cmd(ctx, os.Args[2:])
		} else {
			panic("Unknown Command " + os.Args[1])
		}
	} else {
		err = gen(ctx, nil)
	}
	if err != nil {
		debug.EPrintf("%v", err)
		os.Exit(1)
	}
}

// config loads the config file, if any, and applies the flags set on top.
func config(ctx context.Context, args []string) (vkgen.Config, error) {
	o := &options{}
	if _, err := flags.ParseArgs(o, args); err != nil {
		return vkgen.Config{}, err
	}
	c := vkgen.Config{}
	if o.Config != "" {
		var err error
		if c, err = vkgen.LoadConfig(ctx, o.Config); err != nil {
			return vkgen.Config{}, err
		}
	}
	if o.Spec != "" {
		c.Spec = o.Spec
	}
	if o.API != "" {
		c.API = o.API
	}
	if o.Version != "" {
		c.Version = o.Version
	}
	if len(o.Extensions) > 0 {
		c.Extensions = o.Extensions
		c.AllExtensions = false
	}
	if o.AllExtensions {
		c.AllExtensions = true
		c.Extensions = nil
	}
	if len(o.ExcludeAPIs) > 0 {
		c.ExcludeAPIs = o.ExcludeAPIs
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	c.Strict = c.Strict || o.Strict
	c.ForceRebuild = c.ForceRebuild || o.ForceRebuild
	return c, nil
}

func gen(ctx context.Context, args []string) error {
	c, err := config(ctx, args)
	if err != nil {
		return err
	}
	_, err = vkgen.Gen(ctx, c)
	return err
}

func check(ctx context.Context, args []string) error {
	c, err := config(ctx, args)
	if err != nil {
		return err
	}
	r, err := vkgen.Check(ctx, c)
	if err != nil {
		return err
	}
	if !r.OK() {
		return debug.Errorf("%d skipped entities, %d unresolved types", len(r.Skipped), len(r.Unresolved))
	}
	debug.IPrintf("OK")
	return nil
}
