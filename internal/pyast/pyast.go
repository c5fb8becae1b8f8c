// Package pyast reads Python source with tree-sitter. It never runs the
// source.
package pyast

import (
	"fmt"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/bytecode"
	"github.com/bytescope/bytescope/errz"
)

const indent = "  "

// maxLeafText bounds the text shown for a leaf node in a dump.
const maxLeafText = 60

func parse(source []byte) (*tree_sitter.Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_python.Language())); err != nil {
		return nil, fmt.Errorf("failed to load python grammar: %w", err)
	}
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errz.New(errz.ErrSyntax, "failed to parse source")
	}
	return tree, nil
}

// Dump renders the syntax tree of source as an indented S-expression of
// named nodes. Field names prefix the nodes they label and leaves show
// their text:
//
//	(module
//	  (expression_statement
//	    (assignment
//	      left: (identifier "x")
//	      right: (integer "1"))))
//
// Source with syntax errors yields an *errz.StructuredError of kind
// ErrSyntax pointing at the first error.
func Dump(source []byte) (string, error) {
	tree, err := parse(source)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return "", syntaxError(root, source)
	}
	var sb strings.Builder
	cursor := root.Walk()
	defer cursor.Close()
	dumpNode(&sb, cursor, source, 0)
	return sb.String(), nil
}

func dumpNode(sb *strings.Builder, cursor *tree_sitter.TreeCursor, source []byte, depth int) {
	node := cursor.Node()
	sb.WriteString("(")
	sb.WriteString(node.Kind())
	if node.NamedChildCount() == 0 {
		sb.WriteString(" ")
		sb.WriteString(strconv.Quote(leafText(node, source)))
	}
	if cursor.GotoFirstChild() {
		for {
			if cursor.Node().IsNamed() {
				sb.WriteString("\n")
				sb.WriteString(strings.Repeat(indent, depth+1))
				if field := cursor.FieldName(); field != "" {
					sb.WriteString(field)
					sb.WriteString(": ")
				}
				dumpNode(sb, cursor, source, depth+1)
			}
			if !cursor.GotoNextSibling() {
				break
			}
		}
		cursor.GotoParent()
	}
	sb.WriteString(")")
}

func leafText(node *tree_sitter.Node, source []byte) string {
	text := node.Utf8Text(source)
	if r := []rune(text); len(r) > maxLeafText {
		text = string(r[:maxLeafText-3]) + "..."
	}
	return text
}

// syntaxError locates the first error or missing node under root.
func syntaxError(root *tree_sitter.Node, source []byte) error {
	node := firstError(root)
	if node == nil {
		node = root
	}
	pos := node.StartPosition()
	line := int(pos.Row) + 1
	msg := "invalid syntax"
	if node.IsMissing() {
		msg = fmt.Sprintf("missing %s", node.Kind())
	}
	return errz.New(errz.ErrSyntax, msg).WithLocation(errz.SourceLocation{
		Line:   line,
		Column: int(pos.Column) + 1,
		Source: bytecode.SourceLine(string(source), line),
	})
}

func firstError(node *tree_sitter.Node) *tree_sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstError(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// Signatures returns the call signatures of the functions defined in
// source, read from each def header. Module-level definitions take
// precedence over nested ones of the same name; a later module-level
// definition replaces an earlier one, as it would at run time.
// Signatures are rendered from the source text, so default values appear
// as written.
func Signatures(source []byte) (analysis.SignatureMap, error) {
	tree, err := parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	sigs := analysis.SignatureMap{}
	topLevel := map[string]bool{}
	var visit func(node *tree_sitter.Node, moduleLevel bool)
	visit = func(node *tree_sitter.Node, moduleLevel bool) {
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch child.Kind() {
			case "decorated_definition":
				visit(child, moduleLevel)
			case "function_definition":
				name, sig, ok := signature(child, source)
				if ok {
					if moduleLevel {
						sigs[name] = sig
						topLevel[name] = true
					} else if !topLevel[name] {
						if _, seen := sigs[name]; !seen {
							sigs[name] = sig
						}
					}
				}
				visit(child, false)
			default:
				visit(child, false)
			}
		}
	}
	visit(tree.RootNode(), true)
	return sigs, nil
}

func signature(def *tree_sitter.Node, source []byte) (name, sig string, ok bool) {
	nameNode := def.ChildByFieldName("name")
	params := def.ChildByFieldName("parameters")
	if nameNode == nil || params == nil {
		return "", "", false
	}
	sig = compact(params.Utf8Text(source))
	if ret := def.ChildByFieldName("return_type"); ret != nil {
		sig += " -> " + compact(ret.Utf8Text(source))
	}
	return nameNode.Utf8Text(source), sig, true
}

// compact collapses whitespace, including line breaks inside a
// parenthesized parameter list.
func compact(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	s = strings.ReplaceAll(s, "( ", "(")
	s = strings.ReplaceAll(s, " )", ")")
	s = strings.ReplaceAll(s, ",)", ")")
	return s
}
