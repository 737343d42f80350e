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

// Package names derives identifier-safe and display forms of vk.xml
// names.
package names

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/viant/toolbox/format"
)

const (
	DefaultAPIPrefix = "VK_"
	// ValueMarker prefixes every derived enumerant name.
	ValueMarker = "e"
)

var reservedWords = map[string]string{
	"scope":    "vkscope",
	"function": "vkfunction",
	"params":   "vkparams",
}

var flagsSuffixRe = regexp.MustCompile(`_FLAGS(_\d+)?$`)

// IdentifierSafe replaces names that collide with keywords of common target
// languages.
func IdentifierSafe(name string) string {
	if safe, ok := reservedWords[name]; ok {
		return safe
	}
	return name
}

// DisplayName removes the first case-insensitive "bit" from name, so
// VkSampleCountFlagBits is displayed as VkSampleCountFlags.
func DisplayName(name string) string {
	i := strings.Index(strings.ToLower(name), "bit")
	if i < 0 {
		return name
	}
	return name[:i] + name[i+3:]
}

// UpperSnake converts a camel case name to the upper snake case used by
// enumerants, names without lower case letters are only upper cased.
func UpperSnake(name string) string {
	if !strings.ContainsFunc(name, unicode.IsLower) {
		return strings.ToUpper(name)
	}
	humps := camelHumps(name)
	for i, h := range humps {
		if !strings.ContainsFunc(h, unicode.IsLower) {
			continue
		}
		from := format.CaseUpperCamel
		if unicode.IsLower([]rune(h)[0]) {
			from = format.CaseLowerCamel
		}
		humps[i] = from.Format(h, format.CaseUpperUnderscore)
	}
	return strings.Join(humps, "_")
}

// camelHumps splits name into words: a capitalized run, an acronym that ends
// where the next word starts, or a trailing digit run.
func camelHumps(name string) []string {
	runes := []rune(name)
	var humps []string
	start := 0
	for i, c := range runes {
		if i == 0 {
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(c) && unicode.IsLower(prev),
			unicode.IsUpper(c) && unicode.IsDigit(prev),
			unicode.IsUpper(c) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]),
			unicode.IsDigit(c) && unicode.IsLetter(prev) && allDigits(runes[i:]):
			humps = append(humps, string(runes[start:i]))
			start = i
		}
	}
	return append(humps, string(runes[start:]))
}

// Namer derives short enumerant names, vendor tags are kept upper case and
// are not part of the prefix that gets stripped.
type Namer struct {
	APIPrefix string
	tags      []string
}

func NewNamer(tags []string) *Namer {
	n := &Namer{
		APIPrefix: DefaultAPIPrefix,
		tags:      append([]string(nil), tags...),
	}
	sort.SliceStable(n.tags, func(i, j int) bool { return len(n.tags[i]) > len(n.tags[j]) })
	return n
}

// PrettyEnumValue is Namer.EnumValue without vendor tags.
func PrettyEnumValue(enumName, valueName string) string {
	return NewNamer(nil).EnumValue(enumName, valueName)
}

func (n *Namer) isTag(token string) bool {
	for _, t := range n.tags {
		if t == token {
			return true
		}
	}
	return false
}

// EnumPrefix returns the upper snake case prefix shared by the members of
// enumName, VkAccessFlagBits2KHR becomes VK_ACCESS_2.
func (n *Namer) EnumPrefix(enumName string) string {
	name := DisplayName(enumName)
	for _, t := range n.tags {
		p, ok := strings.CutSuffix(name, t)
		if !ok || p == "" || unicode.IsUpper([]rune(p)[len([]rune(p))-1]) {
			continue
		}
		name = strings.TrimSuffix(p, "_")
		break
	}
	return flagsSuffixRe.ReplaceAllString(UpperSnake(name), "$1")
}

// EnumValue derives the display form of valueName, a member of enumName:
// the enumeration prefix is stripped, the bit marker dropped and the rest
// title cased behind ValueMarker. VK_SAMPLE_COUNT_1_BIT of
// VkSampleCountFlagBits becomes e1.
func (n *Namer) EnumValue(enumName, valueName string) string {
	prefix := n.EnumPrefix(enumName)
	candidates := []string{prefix + "_"}
	if n.APIPrefix != "" && !strings.HasPrefix(prefix, n.APIPrefix) {
		candidates = append(candidates, n.APIPrefix+prefix+"_")
	}
	candidates = append(candidates, n.APIPrefix)

	rest := valueName
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if r, ok := strings.CutPrefix(valueName, c); ok && r != "" {
			rest = r
			break
		}
	}

	tokens := strings.Split(rest, "_")
	if len(tokens) > 1 {
		last := len(tokens) - 1
		if n.isTag(tokens[last]) && last > 0 && tokens[last-1] == "BIT" {
			tokens = append(tokens[:last-1], tokens[last])
		} else if tokens[last] == "BIT" {
			tokens = tokens[:last]
		}
	}

	sb := strings.Builder{}
	sb.WriteString(ValueMarker)
	for _, t := range tokens {
		sb.WriteString(n.title(t))
	}
	return sb.String()
}

// title converts an upper snake token to camel case, a letter directly
// followed by a digit keeps its case.
func (n *Namer) title(token string) string {
	if n.isTag(token) {
		return token
	}
	orig := []rune(token)
	runes := []rune(format.CaseUpperUnderscore.Format(token, format.CaseUpperCamel))
	if len(runes) != len(orig) {
		return string(runes)
	}
	for i := 0; i+1 < len(orig); i++ {
		if unicode.IsLetter(orig[i]) && unicode.IsDigit(orig[i+1]) {
			runes[i] = orig[i]
		}
	}
	return string(runes)
}
