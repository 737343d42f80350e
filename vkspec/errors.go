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
	"fmt"

	"goarrg.com/debug"
)

// LoadError reports a structurally invalid entity together with its kind and
// name so that the offending node can be located.
type LoadError struct {
	Kind string
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func errMissing(what string) error {
	return debug.Errorf("missing %s", what)
}

type loader struct {
	reg    *Registry
	strict bool
}

// fail records a malformed entity, in strict mode the error aborts the load
// otherwise the entity is skipped.
func (l *loader) fail(kind, name string, err error) error {
	lerr := &LoadError{Kind: kind, Name: name, Err: err}
	if l.strict {
		return lerr
	}
	debug.WPrintf("skipping %s", lerr)
	l.reg.Skipped = append(l.reg.Skipped, lerr)
	return nil
}
