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
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"goarrg.com/debug"
)

type xmlNode struct {
	name     string
	attrs    []xml.Attr
	head     string
	tail     string
	children []*xmlNode
}

func findAttribute(name string, attrs []xml.Attr) xml.Attr {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a
		}
	}
	return xml.Attr{}
}

func (n *xmlNode) attr(name string) string {
	return findAttribute(name, n.attrs).Value
}

func (n *xmlNode) child(name string) *xmlNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *xmlNode) childText(name string) string {
	if c := n.child(name); c != nil {
		return strings.TrimSpace(c.text())
	}
	return ""
}

// text returns the character data of n and its descendants in document
// order, <comment> children are left out.
func (n *xmlNode) text() string {
	sb := strings.Builder{}
	n.writeText(&sb)
	return sb.String()
}

func (n *xmlNode) writeText(sb *strings.Builder) {
	sb.WriteString(n.head)
	for _, c := range n.children {
		if c.name != "comment" {
			c.writeText(sb)
		}
		sb.WriteString(c.tail)
	}
}

func readNode(decoder *xml.Decoder, start xml.StartElement) (*xmlNode, error) {
	n := &xmlNode{name: start.Name.Local, attrs: start.Attr}
	var last *xmlNode
	for {
		t, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := t.(type) {
		case xml.StartElement:
			c, err := readNode(decoder, t)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, c)
			last = c
		case xml.CharData:
			if last == nil {
				n.head += string(t)
			} else {
				last.tail += string(t)
			}
		case xml.EndElement:
			return n, nil
		}
	}
}

func parseXML(r io.Reader, l *loader) error {
	parsers := map[string]func(*loader, *xmlNode) error{
		"platforms":  xmlParsePlatforms,
		"tags":       xmlParseTags,
		"types":      xmlParseTypes,
		"enums":      xmlParseEnums,
		"commands":   xmlParseCommands,
		"feature":    xmlParseFeature,
		"extensions": xmlParseExtensions,
	}

	decoder := xml.NewDecoder(r)
	findNextElement := func() (xml.StartElement, error) {
		for {
			t, err := decoder.Token()
			if err != nil {
				return xml.StartElement{}, err
			}
			if start, ok := t.(xml.StartElement); ok {
				return start, nil
			}
			if _, ok := t.(xml.EndElement); ok {
				return xml.StartElement{}, io.EOF
			}
		}
	}

	registry, err := findNextElement()
	if err != nil {
		return debug.ErrorWrapf(err, "failed to read registry")
	}
	if registry.Name.Local != "registry" {
		return debug.Errorf("unknown xml format %s", registry.Name.Local)
	}
	for {
		next, err := findNextElement()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return debug.ErrorWrapf(err, "failed to read registry")
		}
		fn, ok := parsers[next.Name.Local]
		if !ok {
			if err := decoder.Skip(); err != nil {
				return debug.ErrorWrapf(err, "failed to skip <%s>", next.Name.Local)
			}
			continue
		}
		node, err := readNode(decoder, next)
		if err != nil {
			return debug.ErrorWrapf(err, "failed to read <%s>", next.Name.Local)
		}
		if err := fn(l, node); err != nil {
			return err
		}
	}
}

func xmlParsePlatforms(l *loader, n *xmlNode) error {
	for _, c := range n.children {
		if c.name != "platform" {
			continue
		}
		name := c.attr("name")
		if name == "" {
			if err := l.fail("platform", "", errMissing("name")); err != nil {
				return err
			}
			continue
		}
		l.reg.Platforms = append(l.reg.Platforms, Platform{
			Name:    name,
			Protect: c.attr("protect"),
			Comment: c.attr("comment"),
		})
	}
	return nil
}

func xmlParseTags(l *loader, n *xmlNode) error {
	for _, c := range n.children {
		if c.name != "tag" {
			continue
		}
		name := c.attr("name")
		if name == "" {
			if err := l.fail("tag", "", errMissing("name")); err != nil {
				return err
			}
			continue
		}
		l.reg.Tags = append(l.reg.Tags, Tag{
			Name:    name,
			Author:  c.attr("author"),
			Contact: c.attr("contact"),
		})
	}
	return nil
}

func typeName(n *xmlNode) string {
	if name := n.attr("name"); name != "" {
		return name
	}
	return n.childText("name")
}

func xmlParseTypes(l *loader, n *xmlNode) error {
	for _, c := range n.children {
		if c.name != "type" {
			continue
		}
		category := c.attr("category")
		name := typeName(c)

		if alias := c.attr("alias"); alias != "" {
			if name == "" {
				if err := l.fail(category+" alias", alias, errMissing("name")); err != nil {
					return err
				}
				continue
			}
			l.reg.Aliases = append(l.reg.Aliases, TypeAlias{Name: name, Target: alias, Category: category})
			if category == "handle" {
				l.reg.Handles = append(l.reg.Handles, Handle{Name: name, Alias: alias, API: c.attr("api")})
			}
			continue
		}

		var err error
		switch category {
		case "basetype":
			var bt BaseType
			var ok bool
			if bt, ok, err = xmlParseBaseType(c); ok {
				l.reg.BaseTypes = append(l.reg.BaseTypes, bt)
			}
		case "bitmask":
			var td Typedef
			if td, err = xmlParseTypedef(c); err == nil {
				l.reg.Typedefs = append(l.reg.Typedefs, td)
			}
		case "handle":
			var h Handle
			if h, err = xmlParseHandle(c); err == nil {
				l.reg.Handles = append(l.reg.Handles, h)
			}
		case "struct", "union":
			var s Struct
			if s, err = xmlParseStruct(c); err == nil {
				l.reg.Structs = append(l.reg.Structs, s)
			}
		case "funcpointer":
			var fp FuncPointer
			if fp, err = xmlParseFuncPointer(c); err == nil {
				l.reg.FuncPointers = append(l.reg.FuncPointers, fp)
			}
		default:
			continue
		}
		if err != nil {
			if err := l.fail(category, name, err); err != nil {
				return err
			}
		}
	}
	return nil
}

func xmlParseBaseType(n *xmlNode) (BaseType, bool, error) {
	typ := n.childText("type")
	if typ == "" {
		// forward declared platform structs carry no underlying type
		return BaseType{}, false, nil
	}
	name := n.childText("name")
	if name == "" {
		return BaseType{}, false, errMissing("<name>")
	}
	return BaseType{
		Name:    name,
		Type:    typ,
		Pointer: pointerDepth(normalizeDecl(n.text()), typ),
	}, true, nil
}

func xmlParseTypedef(n *xmlNode) (Typedef, error) {
	td := Typedef{
		Name:     n.childText("name"),
		Type:     n.childText("type"),
		Requires: n.attr("requires"),
		Category: n.attr("category"),
		API:      n.attr("api"),
	}
	if td.Requires == "" {
		td.Requires = n.attr("bitvalues")
	}
	if td.Name == "" {
		return Typedef{}, errMissing("<name>")
	}
	if td.Type == "" {
		return Typedef{}, errMissing("<type>")
	}
	return td, nil
}

func xmlParseHandle(n *xmlNode) (Handle, error) {
	h := Handle{
		Name:       typeName(n),
		Parent:     n.attr("parent"),
		ObjectType: n.attr("objtypeenum"),
		API:        n.attr("api"),
	}
	if h.Name == "" {
		return Handle{}, errMissing("<name>")
	}
	kind := n.childText("type")
	switch kind {
	case "VK_DEFINE_HANDLE":
		h.Dispatchable = true
	case "VK_DEFINE_NON_DISPATCHABLE_HANDLE":
	default:
		return Handle{}, debug.Errorf("unknown handle kind %q", kind)
	}
	return h, nil
}

func xmlParseStruct(n *xmlNode) (Struct, error) {
	s := Struct{
		Name:         n.attr("name"),
		Union:        n.attr("category") == "union",
		ReturnedOnly: n.attr("returnedonly") == "true",
		Comment:      n.attr("comment"),
		API:          n.attr("api"),
	}
	if s.Name == "" {
		return Struct{}, errMissing("name")
	}
	if extends := n.attr("structextends"); extends != "" {
		s.Extends = strings.Split(extends, ",")
	}
	for _, c := range n.children {
		if c.name != "member" {
			continue
		}
		m := Member{
			Name:           c.childText("name"),
			TypeName:       c.childText("type"),
			ArrayConstant:  c.childText("enum"),
			API:            c.attr("api"),
			Optional:       strings.HasPrefix(c.attr("optional"), "true"),
			Len:            c.attr("len"),
			Values:         c.attr("values"),
			NoAutoValidity: c.attr("noautovalidity") == "true",
			Comment:        c.childText("comment"),
		}
		if m.Name == "" {
			return Struct{}, debug.Errorf("member %d: %v", len(s.Members), errMissing("<name>"))
		}
		if m.TypeName == "" {
			return Struct{}, debug.Errorf("member %s: %v", m.Name, errMissing("<type>"))
		}
		decl := normalizeDecl(c.text())
		m.Pointer = pointerDepth(decl, m.TypeName)
		m.IsConst = isConstDecl(decl, m.TypeName)
		m.ElementCount = elementCount(decl)
		m.BitField = bitFieldWidth(decl)
		s.Members = append(s.Members, m)
	}
	return s, nil
}

func xmlParseParam(n *xmlNode) (Param, error) {
	p := Param{
		Name:           n.childText("name"),
		TypeName:       n.childText("type"),
		API:            n.attr("api"),
		ExternSync:     n.attr("externsync"),
		Len:            n.attr("len"),
		NoAutoValidity: n.attr("noautovalidity") == "true",
		Optional:       strings.HasPrefix(n.attr("optional"), "true"),
	}
	if p.Name == "" {
		return Param{}, errMissing("<name>")
	}
	if p.TypeName == "" {
		return Param{}, debug.Errorf("param %s: %v", p.Name, errMissing("<type>"))
	}
	decl := normalizeDecl(n.text())
	p.Pointer = pointerDepth(decl, p.TypeName)
	p.IsConst = isConstDecl(decl, p.TypeName)
	if length, ok := staticArrayLength(decl); ok {
		p.IsStaticArray = true
		p.StaticArrayLength = length
	}
	return p, nil
}

func xmlParseFuncPointer(n *xmlNode) (FuncPointer, error) {
	if proto := n.child("proto"); proto != nil {
		fp := FuncPointer{
			Name:       proto.childText("name"),
			ReturnType: proto.childText("type"),
			Requires:   n.attr("requires"),
		}
		if fp.Name == "" {
			return FuncPointer{}, errMissing("<proto><name>")
		}
		fp.ReturnPointer = pointerDepth(normalizeDecl(proto.text()), fp.ReturnType)
		for _, c := range n.children {
			if c.name != "param" {
				continue
			}
			p, err := xmlParseParam(c)
			if err != nil {
				return FuncPointer{}, err
			}
			fp.Params = append(fp.Params, p)
		}
		return fp, nil
	}

	m := funcPointerRe.FindStringSubmatch(normalizeDecl(n.text()))
	if m == nil {
		return FuncPointer{}, debug.Errorf("unrecognized function pointer declaration")
	}
	fp := FuncPointer{
		Name:     m[2],
		Requires: n.attr("requires"),
	}
	fp.ReturnType, fp.ReturnPointer = parseCReturn(m[1])
	for _, decl := range strings.Split(m[3], ",") {
		if p, ok := parseCParam(decl); ok {
			fp.Params = append(fp.Params, p)
		}
	}
	return fp, nil
}

func xmlParseEnums(l *loader, n *xmlNode) error {
	name := n.attr("name")
	if name == "API Constants" || n.attr("type") == "constants" {
		for _, c := range n.children {
			if c.name != "enum" {
				continue
			}
			k, err := xmlParseConstant(c)
			if err != nil {
				if err := l.fail("constant", c.attr("name"), err); err != nil {
					return err
				}
				continue
			}
			l.reg.Constants = append(l.reg.Constants, k)
		}
		return nil
	}

	if name == "" {
		return l.fail("enum", "", errMissing("name"))
	}
	e := Enum{
		Name:    name,
		Comment: n.attr("comment"),
	}
	switch n.attr("type") {
	case "enum":
		e.Kind = EnumPlain
	case "bitmask":
		e.Kind = EnumBitmask
	default:
		return l.fail("enum", name, debug.Errorf("unknown enum type %q", n.attr("type")))
	}
	if w := n.attr("bitwidth"); w != "" {
		width, err := strconv.Atoi(w)
		if err != nil {
			return l.fail("enum", name, debug.ErrorWrapf(err, "invalid bitwidth"))
		}
		e.BitWidth = width
	}
	for _, c := range n.children {
		if c.name != "enum" {
			continue
		}
		v, err := xmlParseEnumValue(c, 0)
		if err != nil {
			if err := l.fail("enum value", name+"."+c.attr("name"), err); err != nil {
				return err
			}
			continue
		}
		e.Values = append(e.Values, v)
	}
	l.reg.Enums = append(l.reg.Enums, e)
	return nil
}

func xmlParseConstant(n *xmlNode) (Constant, error) {
	k := Constant{
		Name:    n.attr("name"),
		Value:   n.attr("value"),
		Alias:   n.attr("alias"),
		Comment: n.attr("comment"),
	}
	if k.Name == "" {
		return Constant{}, errMissing("name")
	}
	if k.Alias != "" {
		k.Value = ""
		return k, nil
	}
	if k.Value == "" {
		return Constant{}, debug.Errorf("neither value nor alias is set")
	}
	k.Kind = constantKind(n.attr("type"), k.Value)
	return k, nil
}

// xmlParseEnumValue decodes an <enum> enumerant, extNumber is used for the
// offset form when the element carries no extnumber of its own.
func xmlParseEnumValue(n *xmlNode, extNumber int) (EnumValue, error) {
	v := EnumValue{
		Name:    n.attr("name"),
		Comment: n.attr("comment"),
		API:     n.attr("api"),
	}
	if v.Name == "" {
		return EnumValue{}, errMissing("name")
	}

	if alias := n.attr("alias"); alias != "" {
		v.Kind = EnumValueAlias
		v.Alias = alias
		return v, nil
	}
	if value := n.attr("value"); value != "" {
		var err error
		v.Kind = EnumValueLiteral
		v.Value, v.Hex, err = parseEnumLiteral(value)
		return v, err
	}
	if bitpos := n.attr("bitpos"); bitpos != "" {
		pos, err := strconv.Atoi(bitpos)
		if err != nil || pos < 0 || pos > 63 {
			return EnumValue{}, debug.Errorf("invalid bitpos %q", bitpos)
		}
		v.Kind = EnumValueBitPos
		v.BitPos = pos
		v.Value = int64(uint64(1) << uint(pos))
		return v, nil
	}
	if offset := n.attr("offset"); offset != "" {
		off, err := strconv.Atoi(offset)
		if err != nil {
			return EnumValue{}, debug.ErrorWrapf(err, "invalid offset %q", offset)
		}
		if ext := n.attr("extnumber"); ext != "" {
			if extNumber, err = strconv.Atoi(ext); err != nil {
				return EnumValue{}, debug.ErrorWrapf(err, "invalid extnumber %q", ext)
			}
		}
		if extNumber <= 0 {
			return EnumValue{}, debug.Errorf("offset without extension number")
		}
		v.Kind = EnumValueLiteral
		v.Value = extensionEnumValue(extNumber, off, n.attr("dir") == "-")
		return v, nil
	}
	return EnumValue{}, debug.Errorf("neither value, bitpos nor alias is set")
}

func xmlParseCommands(l *loader, n *xmlNode) error {
	for _, c := range n.children {
		if c.name != "command" {
			continue
		}
		cmd, err := xmlParseCommand(c)
		if err != nil {
			name := c.attr("name")
			if name == "" {
				if proto := c.child("proto"); proto != nil {
					name = proto.childText("name")
				}
			}
			if err := l.fail("command", name, err); err != nil {
				return err
			}
			continue
		}
		l.reg.Commands = append(l.reg.Commands, cmd)
	}
	return nil
}

func splitList(attr string) []string {
	if attr == "" {
		return nil
	}
	return strings.Split(attr, ",")
}

func xmlParseCommand(n *xmlNode) (Command, error) {
	cmd := Command{
		Queues:         splitList(n.attr("queues")),
		RenderPass:     n.attr("renderpass"),
		CmdBufferLevel: splitList(n.attr("cmdbufferlevel")),
		Pipeline:       n.attr("pipeline"),
		SuccessCodes:   splitList(n.attr("successcodes")),
		ErrorCodes:     splitList(n.attr("errorcodes")),
		Export:         splitList(n.attr("export")),
		API:            n.attr("api"),
		Comment:        n.attr("comment"),
	}

	if alias := n.attr("alias"); alias != "" {
		cmd.Name = n.attr("name")
		cmd.Alias = alias
		if cmd.Name == "" {
			return Command{}, errMissing("name")
		}
		return cmd, nil
	}

	proto := n.child("proto")
	if proto == nil {
		return Command{}, errMissing("<proto>")
	}
	cmd.Name = proto.childText("name")
	cmd.ReturnType = proto.childText("type")
	if cmd.Name == "" {
		return Command{}, errMissing("<proto><name>")
	}
	if cmd.ReturnType == "" {
		return Command{}, errMissing("<proto><type>")
	}

	// repeated parameter names are api variants, Params keeps the first
	seen := map[string]bool{}
	for _, c := range n.children {
		if c.name != "param" {
			continue
		}
		p, err := xmlParseParam(c)
		if err != nil {
			return Command{}, err
		}
		cmd.AllParams = append(cmd.AllParams, p)
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		cmd.Params = append(cmd.Params, p)
	}
	for _, p := range cmd.Params {
		if p.Name == "instance" && p.TypeName == "VkInstance" {
			cmd.IsInstance = true
		}
	}
	return cmd, nil
}

func xmlParseRequire(l *loader, n *xmlNode, owner string, extNumber int) (Require, error) {
	req := Require{
		API:     n.attr("api"),
		Depends: n.attr("depends"),
		Comment: n.attr("comment"),
	}
	for _, c := range n.children {
		name := c.attr("name")
		switch c.name {
		case "type":
			req.Types = append(req.Types, name)
		case "command":
			req.Commands = append(req.Commands, name)
		case "enum":
			e := RequireEnum{Name: name, Extends: c.attr("extends")}
			switch {
			case e.Extends != "":
				v, err := xmlParseEnumValue(c, extNumber)
				if err != nil {
					if err := l.fail("enum value", owner+"."+name, err); err != nil {
						return Require{}, err
					}
					continue
				}
				e.Value = &v
			case c.attr("value") != "" || c.attr("alias") != "":
				k, err := xmlParseConstant(c)
				if err != nil {
					if err := l.fail("constant", owner+"."+name, err); err != nil {
						return Require{}, err
					}
					continue
				}
				e.Constant = &k
			}
			req.Enums = append(req.Enums, e)
		}
	}
	return req, nil
}

func xmlParseFeature(l *loader, n *xmlNode) error {
	f := Feature{
		Name:    n.attr("name"),
		API:     SplitAPI(n.attr("api")),
		Number:  n.attr("number"),
		Comment: n.attr("comment"),
	}
	if f.Name == "" {
		return l.fail("feature", f.Number, errMissing("name"))
	}
	for _, c := range n.children {
		if c.name != "require" {
			continue
		}
		req, err := xmlParseRequire(l, c, f.Name, 0)
		if err != nil {
			return err
		}
		f.Requires = append(f.Requires, req)
	}
	l.reg.Features = append(l.reg.Features, f)
	return nil
}

func xmlParseExtensions(l *loader, n *xmlNode) error {
	for _, c := range n.children {
		if c.name != "extension" {
			continue
		}
		e := Extension{
			Name:        c.attr("name"),
			Kind:        c.attr("type"),
			Platform:    c.attr("platform"),
			Supported:   SplitAPI(c.attr("supported")),
			Promoted:    c.attr("promotedto"),
			Deprecated:  c.attr("deprecatedby"),
			Obsoleted:   c.attr("obsoletedby"),
			Provisional: c.attr("provisional") == "true",
		}
		if e.Name == "" {
			if err := l.fail("extension", c.attr("number"), errMissing("name")); err != nil {
				return err
			}
			continue
		}
		if number := c.attr("number"); number != "" {
			v, err := strconv.Atoi(number)
			if err != nil {
				if err := l.fail("extension", e.Name, debug.ErrorWrapf(err, "invalid number")); err != nil {
					return err
				}
				continue
			}
			e.Number = v
		}
		{
			depends := c.attr("depends")
			if depends == "" {
				depends = c.attr("requires")
			}
			depends = strings.NewReplacer("(", "", ")", "", ",", "+").Replace(depends)
			if depends != "" {
				e.Depends = strings.Split(depends, "+")
			}
		}
		for _, r := range c.children {
			if r.name != "require" {
				continue
			}
			req, err := xmlParseRequire(l, r, e.Name, e.Number)
			if err != nil {
				return err
			}
			e.Requires = append(e.Requires, req)
		}
		l.reg.Extensions = append(l.reg.Extensions, e)
	}
	return nil
}
