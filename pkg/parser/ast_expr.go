package parser

import (
	"strconv"
	"strings"
)

// Identifier is a name together with the role it plays where it appears.
type Identifier struct {
	BaseNode
	Name string // NFC-normalised
	Role BindingRole
}

func (i *Identifier) expressionNode()  {}
func (i *Identifier) entityNameNode()  {}
func (i *Identifier) bindingNameNode() {}
func (i *Identifier) String() string   { return i.Name }

// NumberLiteral is a numeric literal. Value is 0 for BigInt literals.
type NumberLiteral struct {
	BaseNode
	Raw   string
	Value float64
}

func (nl *NumberLiteral) expressionNode() {}
func (nl *NumberLiteral) String() string  { return nl.Raw }

// StringLiteral is a string literal; Value is decoded.
type StringLiteral struct {
	BaseNode
	Value string
}

func (sl *StringLiteral) expressionNode() {}
func (sl *StringLiteral) String() string  { return strconv.Quote(sl.Value) }

// TemplateLiteral is a template literal kept as raw text.
type TemplateLiteral struct {
	BaseNode
	Raw string
}

func (tl *TemplateLiteral) expressionNode() {}
func (tl *TemplateLiteral) String() string  { return tl.Raw }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	BaseNode
	Value bool
}

func (bl *BooleanLiteral) expressionNode() {}
func (bl *BooleanLiteral) String() string  { return strconv.FormatBool(bl.Value) }

// NullLiteral is null.
type NullLiteral struct {
	BaseNode
}

func (nl *NullLiteral) expressionNode() {}
func (nl *NullLiteral) String() string  { return "null" }

// ThisExpression is this.
type ThisExpression struct {
	BaseNode
}

func (te *ThisExpression) expressionNode() {}
func (te *ThisExpression) String() string  { return "this" }

// ArrayLiteral is `[a, b, ...c]`.
type ArrayLiteral struct {
	BaseNode
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode() {}
func (al *ArrayLiteral) String() string  { return "[" + joinNodes(al.Elements, ", ") + "]" }

// ObjectLiteral is `{ a: 1, b, ...c }`. Properties are *Property or
// *SpreadElement.
type ObjectLiteral struct {
	BaseNode
	Properties []Expression
}

func (ol *ObjectLiteral) expressionNode() {}
func (ol *ObjectLiteral) String() string {
	if len(ol.Properties) == 0 {
		return "{}"
	}
	return "{ " + joinNodes(ol.Properties, ", ") + " }"
}

// Property is one entry of an object literal. A shorthand property has no
// Value; its Key is the identifier with RolePropertyShorthand.
type Property struct {
	BaseNode
	Key       Expression // *Identifier, *StringLiteral, *NumberLiteral or *ComputedPropertyName
	Value     Expression // nil when Shorthand
	Shorthand bool
	Method    bool // `f() {}`; Value is a *FunctionExpression
}

func (p *Property) expressionNode() {}
func (p *Property) String() string {
	switch {
	case p.Shorthand:
		return p.Key.String()
	case p.Method:
		fn := p.Value.(*FunctionExpression)
		return p.Key.String() + fn.Signature.String() + " " + fn.Body.String()
	}
	return p.Key.String() + ": " + p.Value.String()
}

// ComputedPropertyName is `[expr]` used as a property key.
type ComputedPropertyName struct {
	BaseNode
	Expression Expression
}

func (cp *ComputedPropertyName) expressionNode() {}
func (cp *ComputedPropertyName) String() string  { return "[" + cp.Expression.String() + "]" }

// SpreadElement is `...expr`.
type SpreadElement struct {
	BaseNode
	Argument Expression
}

func (se *SpreadElement) expressionNode() {}
func (se *SpreadElement) String() string  { return "..." + se.Argument.String() }

// MemberExpression is `obj.prop` or `obj?.prop`.
type MemberExpression struct {
	BaseNode
	Object   Expression
	Property *Identifier
	Optional bool
}

func (me *MemberExpression) expressionNode() {}
func (me *MemberExpression) String() string {
	if me.Optional {
		return me.Object.String() + "?." + me.Property.String()
	}
	return me.Object.String() + "." + me.Property.String()
}

// IndexExpression is `obj[index]`.
type IndexExpression struct {
	BaseNode
	Object   Expression
	Index    Expression
	Optional bool
}

func (ie *IndexExpression) expressionNode() {}
func (ie *IndexExpression) String() string {
	op := "["
	if ie.Optional {
		op = "?.["
	}
	return ie.Object.String() + op + ie.Index.String() + "]"
}

// CallExpression is `callee(args)`.
type CallExpression struct {
	BaseNode
	Callee        Expression
	TypeArguments []TypeNode
	Arguments     []Expression
	Optional      bool
}

func (ce *CallExpression) expressionNode() {}
func (ce *CallExpression) String() string {
	op := "("
	if ce.Optional {
		op = "?.("
	}
	return ce.Callee.String() + typeArgsString(ce.TypeArguments) + op + joinNodes(ce.Arguments, ", ") + ")"
}

// NewExpression is `new Callee(args)`.
type NewExpression struct {
	BaseNode
	Callee        Expression
	TypeArguments []TypeNode
	Arguments     []Expression
}

func (ne *NewExpression) expressionNode() {}
func (ne *NewExpression) String() string {
	return "new " + ne.Callee.String() + typeArgsString(ne.TypeArguments) + "(" + joinNodes(ne.Arguments, ", ") + ")"
}

// ImportCall is a dynamic `import("m")`.
type ImportCall struct {
	BaseNode
	Argument Expression
}

func (ic *ImportCall) expressionNode() {}
func (ic *ImportCall) String() string  { return "import(" + ic.Argument.String() + ")" }

// MetaProperty is `import.meta`.
type MetaProperty struct {
	BaseNode
	Meta     *Identifier
	Property *Identifier
}

func (mp *MetaProperty) expressionNode() {}
func (mp *MetaProperty) String() string  { return mp.Meta.String() + "." + mp.Property.String() }

// UnaryExpression is a prefix operator such as `!x`, `-x` or `typeof x`.
type UnaryExpression struct {
	BaseNode
	Operator string
	Operand  Expression
}

func (ue *UnaryExpression) expressionNode() {}
func (ue *UnaryExpression) String() string {
	if len(ue.Operator) > 1 && ue.Operator[0] >= 'a' && ue.Operator[0] <= 'z' {
		return "(" + ue.Operator + " " + ue.Operand.String() + ")"
	}
	return "(" + ue.Operator + ue.Operand.String() + ")"
}

// UpdateExpression is `++x`, `x++`, `--x` or `x--`.
type UpdateExpression struct {
	BaseNode
	Operator string
	Prefix   bool
	Operand  Expression
}

func (ue *UpdateExpression) expressionNode() {}
func (ue *UpdateExpression) String() string {
	if ue.Prefix {
		return "(" + ue.Operator + ue.Operand.String() + ")"
	}
	return "(" + ue.Operand.String() + ue.Operator + ")"
}

// BinaryExpression is `left op right`, including logical operators.
type BinaryExpression struct {
	BaseNode
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode() {}
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

// AssignmentExpression is `target op value` for = and compound assignment.
type AssignmentExpression struct {
	BaseNode
	Operator string
	Target   Expression
	Value    Expression
}

func (ae *AssignmentExpression) expressionNode() {}
func (ae *AssignmentExpression) String() string {
	return ae.Target.String() + " " + ae.Operator + " " + ae.Value.String()
}

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	BaseNode
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (ce *ConditionalExpression) expressionNode() {}
func (ce *ConditionalExpression) String() string {
	return "(" + ce.Test.String() + " ? " + ce.Consequent.String() + " : " + ce.Alternate.String() + ")"
}

// ArrowFunction is `(params) => body`. Body is a *Block of kind
// BlockLambda or an Expression.
type ArrowFunction struct {
	BaseNode
	Signature *CallSignature
	Body      Node
}

func (af *ArrowFunction) expressionNode() {}
func (af *ArrowFunction) String() string {
	return af.Signature.String() + " => " + af.Body.String()
}

// FunctionExpression is `function [name](params) { body }`.
type FunctionExpression struct {
	BaseNode
	Name      *Identifier // optional
	Signature *CallSignature
	Body      *Block
}

func (fe *FunctionExpression) expressionNode() {}
func (fe *FunctionExpression) String() string {
	var out strings.Builder
	out.WriteString("function")
	if fe.Name != nil {
		out.WriteString(" " + fe.Name.String())
	}
	out.WriteString(fe.Signature.String())
	out.WriteString(" " + fe.Body.String())
	return out.String()
}

// AsExpression is `expr as Type`.
type AsExpression struct {
	BaseNode
	Expression Expression
	Type       TypeNode
}

func (ae *AsExpression) expressionNode() {}
func (ae *AsExpression) String() string {
	return "(" + ae.Expression.String() + " as " + ae.Type.String() + ")"
}

// NonNullExpression is `expr!`.
type NonNullExpression struct {
	BaseNode
	Expression Expression
}

func (nn *NonNullExpression) expressionNode() {}
func (nn *NonNullExpression) String() string  { return nn.Expression.String() + "!" }

// ParenthesizedExpression is `(expr)`.
type ParenthesizedExpression struct {
	BaseNode
	Expression Expression
}

func (pe *ParenthesizedExpression) expressionNode() {}
func (pe *ParenthesizedExpression) String() string  { return "(" + pe.Expression.String() + ")" }
