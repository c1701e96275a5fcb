package parser

import (
	"strings"
)

// --- Signatures ---

// CallSignature is a parameter list with optional type parameters and
// return type. As an interface or type-literal member it is a call
// signature `(x: T): R`; overloads are repeated sibling members.
type CallSignature struct {
	BaseNode
	TypeParameters []*TypeParameter
	Parameters     []*Parameter
	ReturnType     TypeNode // optional
}

func (cs *CallSignature) typeMemberNode() {}
func (cs *CallSignature) String() string {
	out := typeParamsString(cs.TypeParameters) + "(" + joinNodes(cs.Parameters, ", ") + ")"
	if cs.ReturnType != nil {
		out += ": " + cs.ReturnType.String()
	}
	return out
}

// Parameter is one entry of a parameter list.
type Parameter struct {
	BaseNode
	Modifiers   ModifierFlags // parameter properties: public/private/protected/readonly
	Name        BindingName
	Optional    bool
	Rest        bool
	Type        TypeNode   // optional
	Initializer Expression // optional
}

func (p *Parameter) String() string {
	out := p.Modifiers.String()
	if p.Rest {
		out += "..."
	}
	out += p.Name.String()
	if p.Optional {
		out += "?"
	}
	if p.Type != nil {
		out += ": " + p.Type.String()
	}
	if p.Initializer != nil {
		out += " = " + p.Initializer.String()
	}
	return out
}

// TypeParameter is `T`, `T extends U` or `T = D`.
type TypeParameter struct {
	BaseNode
	Name       *Identifier
	Constraint TypeNode // optional
	Default    TypeNode // optional
}

func (tp *TypeParameter) String() string {
	out := tp.Name.String()
	if tp.Constraint != nil {
		out += " extends " + tp.Constraint.String()
	}
	if tp.Default != nil {
		out += " = " + tp.Default.String()
	}
	return out
}

func typeParamsString(params []*TypeParameter) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + joinNodes(params, ", ") + ">"
}

func typeArgsString(args []TypeNode) string {
	if len(args) == 0 {
		return ""
	}
	return "<" + joinNodes(args, ", ") + ">"
}

// --- Type members ---

// ConstructSignature is `new (x: T): R` inside an interface or type literal.
type ConstructSignature struct {
	BaseNode
	Signature *CallSignature
}

func (cs *ConstructSignature) typeMemberNode() {}
func (cs *ConstructSignature) String() string  { return "new " + cs.Signature.String() }

// PropertySignature is `name?: T`.
type PropertySignature struct {
	BaseNode
	Modifiers ModifierFlags
	Name      Expression
	Optional  bool
	Type      TypeNode // optional
}

func (ps *PropertySignature) typeMemberNode() {}
func (ps *PropertySignature) String() string {
	out := ps.Modifiers.String() + ps.Name.String()
	if ps.Optional {
		out += "?"
	}
	if ps.Type != nil {
		out += ": " + ps.Type.String()
	}
	return out
}

// MethodSignature is `name?(x: T): R`.
type MethodSignature struct {
	BaseNode
	Name      Expression
	Optional  bool
	Signature *CallSignature
}

func (ms *MethodSignature) typeMemberNode() {}
func (ms *MethodSignature) String() string {
	out := ms.Name.String()
	if ms.Optional {
		out += "?"
	}
	return out + ms.Signature.String()
}

// IndexSignature is `[key: string]: T`. It is valid in interfaces, type
// literals and class bodies.
type IndexSignature struct {
	BaseNode
	Modifiers ModifierFlags
	Parameter *Parameter
	Type      TypeNode
}

func (is *IndexSignature) typeMemberNode() {}
func (is *IndexSignature) statementNode()  {}
func (is *IndexSignature) String() string {
	return is.Modifiers.String() + "[" + is.Parameter.String() + "]: " + is.Type.String()
}

func membersString(members []TypeMember) string {
	if len(members) == 0 {
		return "{}"
	}
	return "{ " + joinNodes(members, "; ") + " }"
}

// --- Type nodes ---

// QualifiedName is a dotted name with at least two segments.
type QualifiedName struct {
	BaseNode
	Segments []*Identifier
}

func (qn *QualifiedName) entityNameNode() {}
func (qn *QualifiedName) String() string  { return joinNodes(qn.Segments, ".") }

// Left returns every segment but the last as an entity name.
func (qn *QualifiedName) Left() EntityName {
	if len(qn.Segments) == 2 {
		return qn.Segments[0]
	}
	left := &QualifiedName{Segments: qn.Segments[:len(qn.Segments)-1]}
	left.Loc = qn.Segments[0].Loc.Cover(qn.Segments[len(qn.Segments)-2].Loc)
	return left
}

// Right returns the last segment.
func (qn *QualifiedName) Right() *Identifier { return qn.Segments[len(qn.Segments)-1] }

// TypeReference is a named type with optional type arguments.
type TypeReference struct {
	BaseNode
	TypeName      EntityName
	TypeArguments []TypeNode
}

func (tr *TypeReference) typeNode() {}
func (tr *TypeReference) String() string {
	return tr.TypeName.String() + typeArgsString(tr.TypeArguments)
}

// TypeQuery is `typeof x`, `typeof A.B` or `typeof import("m")[.X]`.
// ExprName is nil only for a bare `typeof import("m")`.
type TypeQuery struct {
	BaseNode
	ExprName        EntityName
	IsImportType    bool
	ImportSpecifier *StringLiteral // set when IsImportType
	TypeArguments   []TypeNode
}

func (tq *TypeQuery) typeNode() {}
func (tq *TypeQuery) String() string {
	out := "typeof "
	if tq.IsImportType {
		out += "import(" + tq.ImportSpecifier.String() + ")"
		if tq.ExprName != nil {
			out += "." + tq.ExprName.String()
		}
	} else {
		out += tq.ExprName.String()
	}
	return out + typeArgsString(tq.TypeArguments)
}

// ImportType is `import("m").X<T>` in a type position.
type ImportType struct {
	BaseNode
	Argument      *StringLiteral
	Qualifier     EntityName // optional
	TypeArguments []TypeNode
}

func (it *ImportType) typeNode() {}
func (it *ImportType) String() string {
	out := "import(" + it.Argument.String() + ")"
	if it.Qualifier != nil {
		out += "." + it.Qualifier.String()
	}
	return out + typeArgsString(it.TypeArguments)
}

// KeywordType is a predefined type such as string, number or void.
type KeywordType struct {
	BaseNode
	Keyword string
}

func (kt *KeywordType) typeNode()      {}
func (kt *KeywordType) String() string { return kt.Keyword }

// LiteralType is a string, number, boolean or null literal used as a type.
type LiteralType struct {
	BaseNode
	Literal Expression
}

func (lt *LiteralType) typeNode()      {}
func (lt *LiteralType) String() string { return lt.Literal.String() }

// ThisType is `this` in a type position.
type ThisType struct {
	BaseNode
}

func (tt *ThisType) typeNode()      {}
func (tt *ThisType) String() string { return "this" }

// ArrayType is `T[]`.
type ArrayType struct {
	BaseNode
	ElementType TypeNode
}

func (at *ArrayType) typeNode()      {}
func (at *ArrayType) String() string { return at.ElementType.String() + "[]" }

// IndexedAccessType is `T[K]`.
type IndexedAccessType struct {
	BaseNode
	ObjectType TypeNode
	IndexType  TypeNode
}

func (ia *IndexedAccessType) typeNode() {}
func (ia *IndexedAccessType) String() string {
	return ia.ObjectType.String() + "[" + ia.IndexType.String() + "]"
}

// TupleType is `[A, B, ...C]`.
type TupleType struct {
	BaseNode
	Elements []TypeNode
}

func (tt *TupleType) typeNode()      {}
func (tt *TupleType) String() string { return "[" + joinNodes(tt.Elements, ", ") + "]" }

// RestType is `...T` inside a tuple.
type RestType struct {
	BaseNode
	Type TypeNode
}

func (rt *RestType) typeNode()      {}
func (rt *RestType) String() string { return "..." + rt.Type.String() }

// UnionType is `A | B`.
type UnionType struct {
	BaseNode
	Types []TypeNode
}

func (ut *UnionType) typeNode()      {}
func (ut *UnionType) String() string { return joinNodes(ut.Types, " | ") }

// IntersectionType is `A & B`.
type IntersectionType struct {
	BaseNode
	Types []TypeNode
}

func (it *IntersectionType) typeNode()      {}
func (it *IntersectionType) String() string { return joinNodes(it.Types, " & ") }

// ParenthesizedType is `(T)`.
type ParenthesizedType struct {
	BaseNode
	Type TypeNode
}

func (pt *ParenthesizedType) typeNode()      {}
func (pt *ParenthesizedType) String() string { return "(" + pt.Type.String() + ")" }

// FunctionType is `<T>(x: T) => R` or, with Constructor set,
// `new (x: T) => R`. The return type lives in the signature.
type FunctionType struct {
	BaseNode
	Constructor bool
	Signature   *CallSignature
}

func (ft *FunctionType) typeNode() {}
func (ft *FunctionType) String() string {
	sig := *ft.Signature
	sig.ReturnType = nil
	out := sig.String() + " => " + ft.Signature.ReturnType.String()
	if ft.Constructor {
		return "new " + out
	}
	return out
}

// TypeLiteral is an inline object type `{ a: T; (x: U): V }`.
type TypeLiteral struct {
	BaseNode
	Members []TypeMember
}

func (tl *TypeLiteral) typeNode()      {}
func (tl *TypeLiteral) String() string { return membersString(tl.Members) }

// TypeOperator is `keyof T`, `readonly T[]` or `unique symbol`.
type TypeOperator struct {
	BaseNode
	Operator string
	Type     TypeNode
}

func (to *TypeOperator) typeNode()      {}
func (to *TypeOperator) String() string { return to.Operator + " " + to.Type.String() }

// TypePredicate is `x is T` in a return type position.
type TypePredicate struct {
	BaseNode
	ParameterName *Identifier
	Type          TypeNode
}

func (tp *TypePredicate) typeNode() {}
func (tp *TypePredicate) String() string {
	return strings.Join([]string{tp.ParameterName.String(), "is", tp.Type.String()}, " ")
}
