package parser

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first, source order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order, calling f for each node
// and then f(nil) after its children. If f returns false the children of
// that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Children returns the direct children of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		out = append(out, nodes...)
	}

	switch n := node.(type) {
	// Program and statements
	case *Program:
		out = appendAll(out, n.Statements)
	case *Block:
		out = appendAll(out, n.Statements)
	case *ExpressionStatement:
		add(n.Expression)
	case *EmptyStatement:
	case *VariableStatement:
		out = appendAll(out, n.Declarations)
	case *VariableDeclarator:
		add(n.Name)
		if n.Type != nil {
			add(n.Type)
		}
		if n.Init != nil {
			add(n.Init)
		}
	case *ObjectBindingPattern:
		out = appendAll(out, n.Elements)
	case *ArrayBindingPattern:
		for _, el := range n.Elements {
			if el != nil {
				add(el)
			}
		}
	case *BindingElement:
		if n.PropertyName != nil {
			add(n.PropertyName)
		}
		add(n.Name)
		if n.Initializer != nil {
			add(n.Initializer)
		}
	case *FunctionDeclaration:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Signature)
		if n.Body != nil {
			add(n.Body)
		}
	case *ClassDeclaration:
		if n.Name != nil {
			add(n.Name)
		}
		out = appendAll(out, n.TypeParameters)
		if n.Extends != nil {
			add(n.Extends)
		}
		out = appendAll(out, n.Implements)
		add(n.Body)
	case *InterfaceDeclaration:
		add(n.Name)
		out = appendAll(out, n.TypeParameters)
		out = appendAll(out, n.Extends)
		out = appendAll(out, n.Members)
	case *TypeAliasDeclaration:
		add(n.Name)
		out = appendAll(out, n.TypeParameters)
		add(n.Type)
	case *ModuleDeclaration:
		out = appendAll(out, n.PathSegments)
		if n.Name != nil {
			add(n.Name)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *ModuleBlock:
		out = appendAll(out, n.Statements)
	case *ImportClause:
		if n.DefaultBinding != nil {
			add(n.DefaultBinding)
		}
		if n.NamespaceBinding != nil {
			add(n.NamespaceBinding)
		}
		out = appendAll(out, n.NamedBindings)
		add(n.ModuleSpecifier)
		out = appendAll(out, n.Attributes)
	case *ImportSpecifier:
		add(n.Name)
		if n.IsAlias {
			add(n.Alias)
		}
	case *ImportAttribute:
		add(n.Key, n.Value)
	case *ExportDeclaration:
		if n.NamespaceAlias != nil {
			add(n.NamespaceAlias)
		}
		out = appendAll(out, n.Specifiers)
		if n.ModuleSpecifier != nil {
			add(n.ModuleSpecifier)
		}
	case *ExportSpecifier:
		add(n.Name)
		if n.Alias != nil {
			add(n.Alias)
		}
	case *ExportAssignment:
		add(n.Expression)
	case *SwitchStatement:
		add(n.Discriminant)
		out = appendAll(out, n.Cases)
	case *Case:
		if n.Test != nil {
			add(n.Test)
		}
		out = appendAll(out, n.Consequent)
	case *IfStatement:
		add(n.Test, n.Consequent)
		if n.Alternate != nil {
			add(n.Alternate)
		}
	case *WhileStatement:
		add(n.Test, n.Body)
	case *DoWhileStatement:
		add(n.Body, n.Test)
	case *ForStatement:
		if n.Init != nil {
			add(n.Init)
		}
		if n.Test != nil {
			add(n.Test)
		}
		if n.Update != nil {
			add(n.Update)
		}
		add(n.Body)
	case *ForInOfStatement:
		add(n.Left, n.Right, n.Body)
	case *ReturnStatement:
		if n.Argument != nil {
			add(n.Argument)
		}
	case *BreakStatement:
		if n.Label != nil {
			add(n.Label)
		}
	case *ContinueStatement:
		if n.Label != nil {
			add(n.Label)
		}
	case *LabeledStatement:
		add(n.Label, n.Body)
	case *ThrowStatement:
		add(n.Argument)
	case *TryStatement:
		add(n.Block)
		if n.Param != nil {
			add(n.Param)
		}
		if n.Handler != nil {
			add(n.Handler)
		}
		if n.Finalizer != nil {
			add(n.Finalizer)
		}
	case *PropertyDeclaration:
		add(n.Name)
		if n.Type != nil {
			add(n.Type)
		}
		if n.Init != nil {
			add(n.Init)
		}
	case *MethodDeclaration:
		add(n.Name, n.Signature)
		if n.Body != nil {
			add(n.Body)
		}

	// Signatures and type members
	case *CallSignature:
		out = appendAll(out, n.TypeParameters)
		out = appendAll(out, n.Parameters)
		if n.ReturnType != nil {
			add(n.ReturnType)
		}
	case *Parameter:
		add(n.Name)
		if n.Type != nil {
			add(n.Type)
		}
		if n.Initializer != nil {
			add(n.Initializer)
		}
	case *TypeParameter:
		add(n.Name)
		if n.Constraint != nil {
			add(n.Constraint)
		}
		if n.Default != nil {
			add(n.Default)
		}
	case *ConstructSignature:
		add(n.Signature)
	case *PropertySignature:
		add(n.Name)
		if n.Type != nil {
			add(n.Type)
		}
	case *MethodSignature:
		add(n.Name, n.Signature)
	case *IndexSignature:
		add(n.Parameter, n.Type)

	// Types
	case *QualifiedName:
		out = appendAll(out, n.Segments)
	case *TypeReference:
		add(n.TypeName)
		out = appendAll(out, n.TypeArguments)
	case *TypeQuery:
		if n.ImportSpecifier != nil {
			add(n.ImportSpecifier)
		}
		if n.ExprName != nil {
			add(n.ExprName)
		}
		out = appendAll(out, n.TypeArguments)
	case *ImportType:
		add(n.Argument)
		if n.Qualifier != nil {
			add(n.Qualifier)
		}
		out = appendAll(out, n.TypeArguments)
	case *KeywordType, *ThisType:
	case *LiteralType:
		add(n.Literal)
	case *ArrayType:
		add(n.ElementType)
	case *IndexedAccessType:
		add(n.ObjectType, n.IndexType)
	case *TupleType:
		out = appendAll(out, n.Elements)
	case *RestType:
		add(n.Type)
	case *UnionType:
		out = appendAll(out, n.Types)
	case *IntersectionType:
		out = appendAll(out, n.Types)
	case *ParenthesizedType:
		add(n.Type)
	case *FunctionType:
		add(n.Signature)
	case *TypeLiteral:
		out = appendAll(out, n.Members)
	case *TypeOperator:
		add(n.Type)
	case *TypePredicate:
		add(n.ParameterName, n.Type)

	// Expressions
	case *Identifier, *NumberLiteral, *StringLiteral, *TemplateLiteral,
		*BooleanLiteral, *NullLiteral, *ThisExpression:
	case *ArrayLiteral:
		out = appendAll(out, n.Elements)
	case *ObjectLiteral:
		out = appendAll(out, n.Properties)
	case *Property:
		add(n.Key)
		if n.Value != nil {
			add(n.Value)
		}
	case *ComputedPropertyName:
		add(n.Expression)
	case *SpreadElement:
		add(n.Argument)
	case *MemberExpression:
		add(n.Object, n.Property)
	case *IndexExpression:
		add(n.Object, n.Index)
	case *CallExpression:
		add(n.Callee)
		out = appendAll(out, n.TypeArguments)
		out = appendAll(out, n.Arguments)
	case *NewExpression:
		add(n.Callee)
		out = appendAll(out, n.TypeArguments)
		out = appendAll(out, n.Arguments)
	case *ImportCall:
		add(n.Argument)
	case *MetaProperty:
		add(n.Meta, n.Property)
	case *UnaryExpression:
		add(n.Operand)
	case *UpdateExpression:
		add(n.Operand)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *AssignmentExpression:
		add(n.Target, n.Value)
	case *ConditionalExpression:
		add(n.Test, n.Consequent, n.Alternate)
	case *ArrowFunction:
		add(n.Signature, n.Body)
	case *FunctionExpression:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Signature, n.Body)
	case *AsExpression:
		add(n.Expression, n.Type)
	case *NonNullExpression:
		add(n.Expression)
	case *ParenthesizedExpression:
		add(n.Expression)

	default:
		panic(fmt.Sprintf("parser.Children: unexpected node type %T", n))
	}
	return out
}

func appendAll[T Node](out []Node, nodes []T) []Node {
	for _, n := range nodes {
		out = append(out, n)
	}
	return out
}

// prune drops entries for statements outside root, left behind by
// speculative parses that were rolled back.
func (cm CommentMap) prune(root Node) {
	live := make(map[Statement]bool, len(cm))
	Inspect(root, func(n Node) bool {
		if s, ok := n.(Statement); ok {
			live[s] = true
		}
		return true
	})
	for s := range cm {
		if !live[s] {
			delete(cm, s)
		}
	}
}
