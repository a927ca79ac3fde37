// Package jsast analyzes JavaScript sources with tree-sitter.
//
// Analyze reduces a parsed file to the facts the resolution and transform
// passes need: identifiers referenced without a local declaration, the module
// specifiers the file references, and the spans of dynamic import keywords.
package jsast

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// ReferenceKind classifies a module reference.
type ReferenceKind int

const (
	// Require is a call to a free require function.
	Require ReferenceKind = iota
	// Import is the source of an import declaration.
	Import
	// Export is the source of an export ... from declaration.
	Export
	// DynamicImport is the string argument of import().
	DynamicImport
)

func (k ReferenceKind) String() string {
	switch k {
	case Require:
		return "require"
	case Import:
		return "import"
	case Export:
		return "export"
	case DynamicImport:
		return "dynamic-import"
	default:
		return "unknown"
	}
}

// Span is a byte range in the analyzed source.
type Span struct {
	Start int
	End   int
}

// Reference is a string literal naming another module.
type Reference struct {
	Kind ReferenceKind

	// Value is the literal text between the quotes.
	Value string

	// Span covers Value, excluding the quotes.
	Span Span
}

// File holds the analysis of one source file.
type File struct {
	// HasError reports whether tree-sitter recovered from syntax errors.
	HasError bool

	// Free lists identifiers referenced without a declaration in scope, sorted.
	Free []string

	// References lists module references in source order.
	References []Reference

	// DynamicImports lists the spans of the import keyword of import() calls.
	DynamicImports []Span

	free map[string]bool
}

// IsFree reports whether name is referenced without a local declaration.
func (f *File) IsFree(name string) bool {
	return f.free[name]
}

// Analyze parses src and returns its analysis. Syntax errors do not fail the
// call; they are reported through File.HasError.
func Analyze(ctx context.Context, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	a := &analyzer{
		src:      src,
		scopes:   make(map[spanKey]map[string]bool),
		bindings: make(map[spanKey]bool),
		free:     make(map[string]bool),
	}
	a.declare(root, nil)
	a.resolve(root, nil)

	f := &File{
		HasError:       root.HasError(),
		References:     a.refs,
		DynamicImports: a.dynamic,
		free:           a.free,
	}
	for name := range a.free {
		f.Free = append(f.Free, name)
	}
	sort.Strings(f.Free)
	return f, nil
}

// spanKey identifies a node across the two walks.
type spanKey struct {
	start, end uint32
	typ        string
}

func keyOf(n *sitter.Node) spanKey {
	return spanKey{start: n.StartByte(), end: n.EndByte(), typ: n.Type()}
}

type frame struct {
	key      spanKey
	function bool
}

type analyzer struct {
	src []byte

	scopes   map[spanKey]map[string]bool
	bindings map[spanKey]bool

	free    map[string]bool
	refs    []Reference
	dynamic []Span
}

func isFunctionNode(typ string) bool {
	switch typ {
	case "function_declaration", "generator_function_declaration",
		"function", "function_expression", "generator_function",
		"arrow_function", "method_definition":
		return true
	}
	return false
}

func isBlockNode(typ string) bool {
	switch typ {
	case "statement_block", "for_statement", "for_in_statement", "catch_clause", "class":
		return true
	}
	return false
}

// declare records every declaration into the scope node that owns it.
func (a *analyzer) declare(n *sitter.Node, stack []frame) {
	typ := n.Type()

	switch typ {
	case "function_declaration", "generator_function_declaration":
		a.bindName(n.ChildByFieldName("name"), nearestFunction(stack))
	case "class_declaration":
		a.bindName(n.ChildByFieldName("name"), nearestBlock(stack))
	}

	switch {
	case typ == "program" || isFunctionNode(typ):
		stack = a.push(stack, n, true)
	case isBlockNode(typ):
		stack = a.push(stack, n, false)
	}
	own := stack[len(stack)-1].key

	switch typ {
	case "function", "function_expression", "generator_function", "class":
		a.bindName(n.ChildByFieldName("name"), own)
	}
	if isFunctionNode(typ) {
		if p := n.ChildByFieldName("parameter"); p != nil {
			a.bindPattern(p, own)
		}
		if params := n.ChildByFieldName("parameters"); params != nil {
			for i := 0; i < int(params.NamedChildCount()); i++ {
				a.bindPattern(params.NamedChild(i), own)
			}
		}
	}

	switch typ {
	case "variable_declaration":
		a.bindDeclarators(n, nearestFunction(stack))
	case "lexical_declaration":
		a.bindDeclarators(n, nearestBlock(stack))
	case "catch_clause":
		if p := n.ChildByFieldName("parameter"); p != nil {
			a.bindPattern(p, own)
		}
	case "for_in_statement":
		switch forInKind(n) {
		case "var":
			a.bindPattern(n.ChildByFieldName("left"), nearestFunction(stack))
		case "let", "const":
			a.bindPattern(n.ChildByFieldName("left"), own)
		}
	case "import_clause":
		a.bindImportClause(n, stack[0].key)
	case "export_specifier":
		if alias := n.ChildByFieldName("alias"); alias != nil {
			a.bindings[keyOf(alias)] = true
		}
	case "export_statement":
		// export {a} from 'x' names bindings of another module.
		if n.ChildByFieldName("source") != nil {
			a.bindReexports(n)
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.declare(n.NamedChild(i), stack)
	}
}

func (a *analyzer) push(stack []frame, n *sitter.Node, function bool) []frame {
	k := keyOf(n)
	if _, ok := a.scopes[k]; !ok {
		a.scopes[k] = make(map[string]bool)
	}
	next := make([]frame, len(stack), len(stack)+1)
	copy(next, stack)
	return append(next, frame{key: k, function: function})
}

func nearestFunction(stack []frame) spanKey {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].function {
			return stack[i].key
		}
	}
	return spanKey{}
}

func nearestBlock(stack []frame) spanKey {
	if len(stack) == 0 {
		return spanKey{}
	}
	return stack[len(stack)-1].key
}

func forInKind(n *sitter.Node) string {
	if kind := n.ChildByFieldName("kind"); kind != nil {
		return kind.Type()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		switch t := n.Child(i).Type(); t {
		case "var", "let", "const":
			return t
		}
	}
	return ""
}

func (a *analyzer) bindName(n *sitter.Node, scope spanKey) {
	if n == nil {
		return
	}
	a.bindings[keyOf(n)] = true
	if names, ok := a.scopes[scope]; ok {
		names[n.Content(a.src)] = true
	}
}

func (a *analyzer) bindDeclarators(n *sitter.Node, scope spanKey) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if d.Type() == "variable_declarator" {
			a.bindPattern(d.ChildByFieldName("name"), scope)
		}
	}
}

// bindPattern declares the names bound by an identifier or destructuring pattern.
// Default values and computed keys inside the pattern stay references.
func (a *analyzer) bindPattern(n *sitter.Node, scope spanKey) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		a.bindName(n, scope)
	case "assignment_pattern", "object_assignment_pattern":
		a.bindPattern(n.ChildByFieldName("left"), scope)
	case "pair_pattern":
		a.bindPattern(n.ChildByFieldName("value"), scope)
	case "object_pattern", "array_pattern", "rest_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			a.bindPattern(n.NamedChild(i), scope)
		}
	}
}

func (a *analyzer) bindImportClause(n *sitter.Node, program spanKey) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "identifier":
			a.bindName(c, program)
		case "namespace_import":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				a.bindName(c.NamedChild(j), program)
			}
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				alias := spec.ChildByFieldName("alias")
				if alias != nil {
					if name != nil {
						a.bindings[keyOf(name)] = true
					}
					a.bindName(alias, program)
				} else {
					a.bindName(name, program)
				}
			}
		}
	}
}

func (a *analyzer) bindReexports(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "export_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			if name := clause.NamedChild(j).ChildByFieldName("name"); name != nil {
				a.bindings[keyOf(name)] = true
			}
		}
	}
}

// resolve walks the tree again, classifying references against the scopes
// collected by declare.
func (a *analyzer) resolve(n *sitter.Node, stack []spanKey) {
	typ := n.Type()
	if _, ok := a.scopes[keyOf(n)]; ok {
		next := make([]spanKey, len(stack), len(stack)+1)
		copy(next, stack)
		stack = append(next, keyOf(n))
	}

	switch typ {
	case "identifier", "shorthand_property_identifier":
		if !a.bindings[keyOf(n)] {
			if name := n.Content(a.src); !a.declared(name, stack) {
				a.free[name] = true
			}
		}
	case "call_expression":
		a.callReference(n, stack)
	case "import_statement":
		a.sourceReference(n, Import)
	case "export_statement":
		a.sourceReference(n, Export)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.resolve(n.NamedChild(i), stack)
	}
}

func (a *analyzer) declared(name string, stack []spanKey) bool {
	for i := len(stack) - 1; i >= 0; i-- {
		if a.scopes[stack[i]][name] {
			return true
		}
	}
	return false
}

func (a *analyzer) callReference(n *sitter.Node, stack []spanKey) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}

	var kind ReferenceKind
	switch fn.Type() {
	case "import":
		a.dynamic = append(a.dynamic, Span{Start: int(fn.StartByte()), End: int(fn.EndByte())})
		kind = DynamicImport
	case "identifier":
		if fn.Content(a.src) != "require" || a.declared("require", stack) {
			return
		}
		kind = Require
	default:
		return
	}

	args := n.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	if ref, ok := a.stringReference(args.NamedChild(0), kind); ok {
		a.refs = append(a.refs, ref)
	}
}

func (a *analyzer) sourceReference(n *sitter.Node, kind ReferenceKind) {
	if ref, ok := a.stringReference(n.ChildByFieldName("source"), kind); ok {
		a.refs = append(a.refs, ref)
	}
}

func (a *analyzer) stringReference(n *sitter.Node, kind ReferenceKind) (Reference, bool) {
	if n == nil || n.Type() != "string" {
		return Reference{}, false
	}
	start, end := int(n.StartByte())+1, int(n.EndByte())-1
	if end < start {
		return Reference{}, false
	}
	return Reference{
		Kind:  kind,
		Value: string(a.src[start:end]),
		Span:  Span{Start: start, End: end},
	}, true
}
