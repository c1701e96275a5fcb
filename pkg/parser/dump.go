package parser

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"

	"github.com/nooga/tsparse/pkg/lexer"
)

// Dumper renders an AST as an indented outline, one node per line with its
// kind, span and distinguishing attributes.
type Dumper struct {
	indentLevel int
	buffer      bytes.Buffer
	comments    CommentMap
	ShowSpans   bool
}

// NewDumper creates a dumper that prints spans.
func NewDumper() *Dumper {
	return &Dumper{ShowSpans: true}
}

// Dump renders node and all of its descendants.
func (d *Dumper) Dump(node Node) string {
	d.buffer.Reset()
	d.indentLevel = 0
	d.comments = commentsOf(node)
	d.dumpNode(node)
	return d.buffer.String()
}

// Helper methods

func (d *Dumper) indent() {
	d.indentLevel++
}

func (d *Dumper) dedent() {
	if d.indentLevel > 0 {
		d.indentLevel--
	}
}

func (d *Dumper) writeIndent() {
	for i := 0; i < d.indentLevel; i++ {
		d.buffer.WriteString("  ")
	}
}

func (d *Dumper) writeLine(format string, args ...interface{}) {
	d.writeIndent()
	fmt.Fprintf(&d.buffer, format, args...)
	d.buffer.WriteString("\n")
}

func (d *Dumper) dumpNode(node Node) {
	line := NodeKind(node)
	if attrs := describe(node); attrs != "" {
		line += " " + attrs
	}
	if d.ShowSpans {
		span := node.Span()
		line += fmt.Sprintf(" @%d:%d [%d,%d)", span.Line, span.Column, span.Start, span.End)
	}
	d.writeLine("%s", line)

	d.indent()
	for _, c := range d.comments.of(node) {
		d.writeLine("Comment %q", c.Text)
	}
	for _, child := range Children(node) {
		d.dumpNode(child)
	}
	d.dedent()
}

// OutlineNode is the serialisable form of one AST node.
type OutlineNode struct {
	Kind     string         `json:"kind"`
	Detail   string         `json:"detail,omitempty"`
	Line     int            `json:"line"`
	Column   int            `json:"column"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
	Comments []string       `json:"comments,omitempty"`
	Children []*OutlineNode `json:"children,omitempty"`
}

// Outline converts node and its descendants into OutlineNodes, carrying
// the same information as Dump.
func Outline(node Node) *OutlineNode {
	return outline(node, commentsOf(node))
}

func outline(node Node, cm CommentMap) *OutlineNode {
	span := node.Span()
	out := &OutlineNode{
		Kind:   NodeKind(node),
		Detail: describe(node),
		Line:   span.Line,
		Column: span.Column,
		Start:  span.Start,
		End:    span.End,
	}
	for _, c := range cm.of(node) {
		out.Comments = append(out.Comments, c.Text)
	}
	for _, child := range Children(node) {
		out.Children = append(out.Children, outline(child, cm))
	}
	return out
}

// commentsOf returns the comment map of a Program root.
func commentsOf(node Node) CommentMap {
	if prog, ok := node.(*Program); ok {
		return prog.Comments
	}
	return nil
}

// of returns the leading comments of node, if it is a statement.
func (cm CommentMap) of(node Node) []lexer.Comment {
	if s, ok := node.(Statement); ok {
		return cm[s]
	}
	return nil
}

// NodeKind returns the node's type name, e.g. "ImportClause".
func NodeKind(node Node) string {
	t := reflect.TypeOf(node)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// describe returns the attributes of node that its children do not show.
func describe(node Node) string {
	switch n := node.(type) {
	case *Program:
		if n.IsExternalModule {
			return "module"
		}
		return "script"
	case *Block:
		return n.Kind.String()
	case *Identifier:
		return n.Name + " (" + n.Role.String() + ")"
	case *NumberLiteral:
		return n.Raw
	case *StringLiteral:
		return strconv.Quote(n.Value)
	case *TemplateLiteral:
		return n.Raw
	case *BooleanLiteral:
		return strconv.FormatBool(n.Value)
	case *KeywordType:
		return n.Keyword
	case *VariableStatement:
		return n.Modifiers.String() + n.Keyword
	case *FunctionDeclaration:
		return trimModifiers(n.Modifiers)
	case *ClassDeclaration:
		return trimModifiers(n.Modifiers)
	case *InterfaceDeclaration:
		return trimModifiers(n.Modifiers)
	case *TypeAliasDeclaration:
		return trimModifiers(n.Modifiers)
	case *ModuleDeclaration:
		return n.Modifiers.String() + n.Kind.String()
	case *ImportClause:
		return flags(n.IsTypeOnly, "type-only", n.IsSideEffectOnly, "side-effect")
	case *ImportSpecifier:
		return flags(n.IsTypeOnly, "type-only", n.IsAlias, "alias")
	case *ExportDeclaration:
		return flags(n.IsTypeOnly, "type-only", n.IsNamespace, "namespace")
	case *ExportSpecifier:
		return flags(n.IsTypeOnly, "type-only")
	case *ExportAssignment:
		return flags(n.IsExportEquals, "equals")
	case *Case:
		out := "default"
		if n.Test != nil {
			out = "case"
		}
		if n.FallsThrough {
			out += " falls-through"
		}
		return out
	case *ForInOfStatement:
		if n.Of {
			return "of"
		}
		return "in"
	case *PropertyDeclaration:
		return n.Modifiers.String() + flags(n.Optional, "optional")
	case *MethodDeclaration:
		return n.Modifiers.String() + n.Accessor
	case *Parameter:
		return n.Modifiers.String() + flags(n.Optional, "optional", n.Rest, "rest")
	case *BindingElement:
		return flags(n.Rest, "rest")
	case *PropertySignature:
		return n.Modifiers.String() + flags(n.Optional, "optional")
	case *MethodSignature:
		return flags(n.Optional, "optional")
	case *TypeQuery:
		return flags(n.IsImportType, "import")
	case *TypeOperator:
		return n.Operator
	case *FunctionType:
		return flags(n.Constructor, "new")
	case *Property:
		return flags(n.Shorthand, "shorthand", n.Method, "method")
	case *MemberExpression:
		return flags(n.Optional, "optional")
	case *IndexExpression:
		return flags(n.Optional, "optional")
	case *CallExpression:
		return flags(n.Optional, "optional")
	case *UnaryExpression:
		return n.Operator
	case *UpdateExpression:
		if n.Prefix {
			return n.Operator + " prefix"
		}
		return n.Operator
	case *BinaryExpression:
		return n.Operator
	case *AssignmentExpression:
		return n.Operator
	}
	return ""
}

func trimModifiers(m ModifierFlags) string {
	s := m.String()
	if s == "" {
		return ""
	}
	return s[:len(s)-1]
}

// flags joins the names whose condition is set: flags(c1, "a", c2, "b").
func flags(pairs ...any) string {
	var out bytes.Buffer
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i].(bool) {
			if out.Len() > 0 {
				out.WriteString(" ")
			}
			out.WriteString(pairs[i+1].(string))
		}
	}
	return out.String()
}
