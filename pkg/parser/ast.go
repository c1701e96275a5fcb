package parser

import (
	"bytes"
	"strings"

	"github.com/nooga/tsparse/pkg/lexer"
	"github.com/nooga/tsparse/pkg/source"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	Span() source.Span // Source range covered by the node
	String() string    // Normalised source form (for debugging and tests)
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode()
}

// TypeNode represents a type annotation.
type TypeNode interface {
	Node
	typeNode()
}

// TypeMember is a member of an interface body or type literal.
type TypeMember interface {
	Node
	typeMemberNode()
}

// EntityName is an *Identifier or a *QualifiedName.
type EntityName interface {
	Node
	entityNameNode()
}

// BindingName is what a declarator or parameter binds: an *Identifier,
// an *ObjectBindingPattern or an *ArrayBindingPattern.
type BindingName interface {
	Node
	bindingNameNode()
}

// BaseNode carries the span shared by every node.
type BaseNode struct {
	Loc source.Span
}

func (b *BaseNode) Span() source.Span { return b.Loc }

// --- Enumerations ---

// BlockKind tells what owns a block.
type BlockKind int

const (
	BlockFunction BlockKind = iota
	BlockControl
	BlockFreeStanding
	BlockLambda
	BlockClassBody
)

var blockKindNames = [...]string{"Function", "Control", "FreeStanding", "Lambda", "ClassBody"}

func (k BlockKind) String() string { return blockKindNames[k] }

// BindingRole is the role an identifier plays at its position.
type BindingRole int

const (
	RoleReference BindingRole = iota
	RoleDeclaration
	RolePropertyShorthand
)

var bindingRoleNames = [...]string{"Reference", "Declaration", "PropertyShorthand"}

func (r BindingRole) String() string { return bindingRoleNames[r] }

// ModuleKind distinguishes the three forms of module declaration.
type ModuleKind int

const (
	ModuleNamespace ModuleKind = iota
	ModuleAmbient
	ModuleGlobal
)

var moduleKindNames = [...]string{"Namespace", "AmbientModule", "GlobalAugmentation"}

func (k ModuleKind) String() string { return moduleKindNames[k] }

// ModifierFlags is a set of declaration modifiers.
type ModifierFlags uint16

const (
	ModExport ModifierFlags = 1 << iota
	ModDefault
	ModDeclare
	ModStatic
	ModReadonly
	ModAbstract
	ModPublic
	ModPrivate
	ModProtected
	ModAsync
)

var modifierNames = []struct {
	flag ModifierFlags
	name string
}{
	{ModExport, "export"},
	{ModDefault, "default"},
	{ModDeclare, "declare"},
	{ModPublic, "public"},
	{ModPrivate, "private"},
	{ModProtected, "protected"},
	{ModAbstract, "abstract"},
	{ModStatic, "static"},
	{ModReadonly, "readonly"},
	{ModAsync, "async"},
}

// Has reports whether all of flags are set.
func (m ModifierFlags) Has(flags ModifierFlags) bool { return m&flags == flags }

// String renders the modifiers followed by a space, or "" when empty.
func (m ModifierFlags) String() string {
	var out strings.Builder
	for _, mn := range modifierNames {
		if m&mn.flag != 0 {
			out.WriteString(mn.name)
			out.WriteString(" ")
		}
	}
	return out.String()
}

// --- Program ---

// Program is the root node of a parsed file.
type Program struct {
	BaseNode
	Statements       []Statement
	Source           *source.SourceFile
	IsExternalModule bool       // Has top-level imports/exports or uses import.meta
	Comments         CommentMap // Leading comments; nil unless comments are attached
}

// CommentMap maps a statement to the comments written directly before it.
type CommentMap map[Statement][]lexer.Comment

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// --- Statements ---

// Block is a brace-delimited statement list.
type Block struct {
	BaseNode
	Kind       BlockKind
	Statements []Statement
}

func (b *Block) statementNode() {}
func (b *Block) String() string {
	if len(b.Statements) == 0 {
		return "{}"
	}
	return "{ " + joinNodes(b.Statements, " ") + " }"
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	BaseNode
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) String() string { return es.Expression.String() + ";" }

// EmptyStatement is a lone ';'.
type EmptyStatement struct {
	BaseNode
}

func (es *EmptyStatement) statementNode() {}
func (es *EmptyStatement) String() string { return ";" }

// VariableStatement is a const/let/var declaration list.
type VariableStatement struct {
	BaseNode
	Modifiers    ModifierFlags
	Keyword      string // "const", "let" or "var"
	Declarations []*VariableDeclarator
}

func (vs *VariableStatement) statementNode() {}
func (vs *VariableStatement) String() string {
	return vs.Modifiers.String() + vs.Keyword + " " + joinNodes(vs.Declarations, ", ") + ";"
}

// VariableDeclarator is one binding of a VariableStatement.
type VariableDeclarator struct {
	BaseNode
	Name BindingName
	Type TypeNode   // optional
	Init Expression // optional
}

func (vd *VariableDeclarator) String() string {
	out := vd.Name.String()
	if vd.Type != nil {
		out += ": " + vd.Type.String()
	}
	if vd.Init != nil {
		out += " = " + vd.Init.String()
	}
	return out
}

// ObjectBindingPattern destructures an object: `{ a, b: c = 1, ...rest }`.
type ObjectBindingPattern struct {
	BaseNode
	Elements []*BindingElement
}

func (op *ObjectBindingPattern) bindingNameNode() {}
func (op *ObjectBindingPattern) String() string {
	if len(op.Elements) == 0 {
		return "{}"
	}
	return "{ " + joinNodes(op.Elements, ", ") + " }"
}

// ArrayBindingPattern destructures an iterable: `[a, , ...rest]`. A hole
// is a nil element.
type ArrayBindingPattern struct {
	BaseNode
	Elements []*BindingElement
}

func (ap *ArrayBindingPattern) bindingNameNode() {}
func (ap *ArrayBindingPattern) String() string {
	parts := make([]string, len(ap.Elements))
	for i, el := range ap.Elements {
		if el != nil {
			parts[i] = el.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// BindingElement is one entry of a binding pattern. PropertyName is set
// for `key: target` in object patterns; Name is the bound target.
type BindingElement struct {
	BaseNode
	PropertyName Expression // optional
	Name         BindingName
	Rest         bool
	Initializer  Expression // optional
}

func (be *BindingElement) String() string {
	var out string
	if be.Rest {
		out = "..."
	}
	if be.PropertyName != nil {
		out += be.PropertyName.String() + ": "
	}
	out += be.Name.String()
	if be.Initializer != nil {
		out += " = " + be.Initializer.String()
	}
	return out
}

// FunctionDeclaration is a named function; Body is nil for overloads and
// ambient declarations.
type FunctionDeclaration struct {
	BaseNode
	Modifiers ModifierFlags
	Name      *Identifier // nil only for `export default function () {}`
	Signature *CallSignature
	Body      *Block
}

func (fd *FunctionDeclaration) statementNode() {}
func (fd *FunctionDeclaration) String() string {
	out := fd.Modifiers.String() + "function"
	if fd.Name != nil {
		out += " " + fd.Name.String()
	}
	out += fd.Signature.String()
	if fd.Body == nil {
		return out + ";"
	}
	return out + " " + fd.Body.String()
}

// ClassDeclaration is a class; its members are the statements of Body.
type ClassDeclaration struct {
	BaseNode
	Modifiers      ModifierFlags
	Name           *Identifier
	TypeParameters []*TypeParameter
	Extends        *TypeReference // optional
	Implements     []*TypeReference
	Body           *Block // Kind == BlockClassBody
}

func (cd *ClassDeclaration) statementNode() {}
func (cd *ClassDeclaration) String() string {
	out := cd.Modifiers.String() + "class"
	if cd.Name != nil {
		out += " " + cd.Name.String()
	}
	out += typeParamsString(cd.TypeParameters)
	if cd.Extends != nil {
		out += " extends " + cd.Extends.String()
	}
	if len(cd.Implements) > 0 {
		out += " implements " + joinNodes(cd.Implements, ", ")
	}
	return out + " " + cd.Body.String()
}

// InterfaceDeclaration declares an interface.
type InterfaceDeclaration struct {
	BaseNode
	Modifiers      ModifierFlags
	Name           *Identifier
	TypeParameters []*TypeParameter
	Extends        []*TypeReference
	Members        []TypeMember
}

func (id *InterfaceDeclaration) statementNode() {}
func (id *InterfaceDeclaration) String() string {
	out := id.Modifiers.String() + "interface " + id.Name.String() + typeParamsString(id.TypeParameters)
	if len(id.Extends) > 0 {
		out += " extends " + joinNodes(id.Extends, ", ")
	}
	return out + " " + membersString(id.Members)
}

// TypeAliasDeclaration is `type Name<T> = Type;`.
type TypeAliasDeclaration struct {
	BaseNode
	Modifiers      ModifierFlags
	Name           *Identifier
	TypeParameters []*TypeParameter
	Type           TypeNode
}

func (ta *TypeAliasDeclaration) statementNode() {}
func (ta *TypeAliasDeclaration) String() string {
	return ta.Modifiers.String() + "type " + ta.Name.String() + typeParamsString(ta.TypeParameters) + " = " + ta.Type.String() + ";"
}

// ModuleDeclaration covers `namespace A.B {}`, `declare module "m" {}` and
// `declare global {}`. PathSegments holds the dotted path of a namespace and
// is empty for the other kinds; Name holds the ambient module specifier.
// Body is nil only for a bodiless ambient module.
type ModuleDeclaration struct {
	BaseNode
	Modifiers    ModifierFlags
	Kind         ModuleKind
	PathSegments []*Identifier
	Name         *StringLiteral
	Body         *ModuleBlock
}

func (md *ModuleDeclaration) statementNode() {}
func (md *ModuleDeclaration) String() string {
	out := md.Modifiers.String()
	switch md.Kind {
	case ModuleNamespace:
		out += "namespace " + joinNodes(md.PathSegments, ".")
	case ModuleAmbient:
		out += "module " + md.Name.String()
	case ModuleGlobal:
		out += "global"
	}
	if md.Body == nil {
		return out + ";"
	}
	return out + " " + md.Body.String()
}

// ModuleBlock is the body of a module declaration.
type ModuleBlock struct {
	BaseNode
	Statements []Statement
}

func (mb *ModuleBlock) String() string {
	if len(mb.Statements) == 0 {
		return "{}"
	}
	return "{ " + joinNodes(mb.Statements, " ") + " }"
}

// ImportClause is an import declaration. A side-effect-only import has
// nothing but its ModuleSpecifier.
type ImportClause struct {
	BaseNode
	DefaultBinding   *Identifier
	NamespaceBinding *Identifier
	NamedBindings    []*ImportSpecifier
	IsTypeOnly       bool
	IsSideEffectOnly bool
	ModuleSpecifier  *StringLiteral
	Attributes       []*ImportAttribute
}

func (ic *ImportClause) statementNode() {}
func (ic *ImportClause) String() string {
	var out bytes.Buffer
	out.WriteString("import ")
	if ic.IsTypeOnly {
		out.WriteString("type ")
	}
	if !ic.IsSideEffectOnly {
		var parts []string
		if ic.DefaultBinding != nil {
			parts = append(parts, ic.DefaultBinding.String())
		}
		if ic.NamespaceBinding != nil {
			parts = append(parts, "* as "+ic.NamespaceBinding.String())
		}
		if ic.NamedBindings != nil {
			parts = append(parts, "{ "+joinNodes(ic.NamedBindings, ", ")+" }")
		}
		out.WriteString(strings.Join(parts, ", "))
		out.WriteString(" from ")
	}
	out.WriteString(ic.ModuleSpecifier.String())
	if len(ic.Attributes) > 0 {
		out.WriteString(" with { " + joinNodes(ic.Attributes, ", ") + " }")
	}
	out.WriteString(";")
	return out.String()
}

// ImportSpecifier is one entry of `{ a, b as c }`. Without an alias the
// imported and local names are the same identifier.
type ImportSpecifier struct {
	BaseNode
	Name       *Identifier // Name as exported by the module
	Alias      *Identifier // Local name when IsAlias
	IsAlias    bool
	IsTypeOnly bool // `import { type T }`
}

// Imported returns the name as exported by the module.
func (is *ImportSpecifier) Imported() *Identifier { return is.Name }

// Local returns the name bound in this file.
func (is *ImportSpecifier) Local() *Identifier {
	if is.IsAlias {
		return is.Alias
	}
	return is.Name
}

func (is *ImportSpecifier) String() string {
	out := ""
	if is.IsTypeOnly {
		out = "type "
	}
	out += is.Name.String()
	if is.IsAlias {
		out += " as " + is.Alias.String()
	}
	return out
}

// ImportAttribute is one `key: "value"` entry of an import's `with` clause.
type ImportAttribute struct {
	BaseNode
	Key   *Identifier
	Value *StringLiteral
}

func (ia *ImportAttribute) String() string { return ia.Key.String() + ": " + ia.Value.String() }

// ExportDeclaration is `export { a, b as c } [from "m"]` or
// `export * [as ns] from "m"`.
type ExportDeclaration struct {
	BaseNode
	IsTypeOnly      bool
	IsNamespace     bool // export *
	NamespaceAlias  *Identifier
	Specifiers      []*ExportSpecifier
	ModuleSpecifier *StringLiteral // optional for the braced form
}

func (ed *ExportDeclaration) statementNode() {}
func (ed *ExportDeclaration) String() string {
	out := "export "
	if ed.IsTypeOnly {
		out += "type "
	}
	if ed.IsNamespace {
		out += "*"
		if ed.NamespaceAlias != nil {
			out += " as " + ed.NamespaceAlias.String()
		}
	} else {
		out += "{ " + joinNodes(ed.Specifiers, ", ") + " }"
	}
	if ed.ModuleSpecifier != nil {
		out += " from " + ed.ModuleSpecifier.String()
	}
	return out + ";"
}

// ExportSpecifier is one entry of an export list.
type ExportSpecifier struct {
	BaseNode
	Name       *Identifier
	Alias      *Identifier // optional
	IsTypeOnly bool
}

func (es *ExportSpecifier) String() string {
	out := ""
	if es.IsTypeOnly {
		out = "type "
	}
	out += es.Name.String()
	if es.Alias != nil {
		out += " as " + es.Alias.String()
	}
	return out
}

// ExportAssignment is `export default expr;` or `export = expr;`.
type ExportAssignment struct {
	BaseNode
	IsExportEquals bool
	Expression     Expression
}

func (ea *ExportAssignment) statementNode() {}
func (ea *ExportAssignment) String() string {
	if ea.IsExportEquals {
		return "export = " + ea.Expression.String() + ";"
	}
	return "export default " + ea.Expression.String() + ";"
}

// SwitchStatement is `switch (x) { case ...: ... }`.
type SwitchStatement struct {
	BaseNode
	Discriminant Expression
	Cases        []*Case
}

func (ss *SwitchStatement) statementNode() {}
func (ss *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch (")
	out.WriteString(ss.Discriminant.String())
	out.WriteString(") {")
	for _, c := range ss.Cases {
		out.WriteString(" ")
		out.WriteString(c.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Case is one clause of a switch; Test is nil for `default`.
type Case struct {
	BaseNode
	Test         Expression
	Consequent   []Statement
	FallsThrough bool
}

func (c *Case) String() string {
	out := "default:"
	if c.Test != nil {
		out = "case " + c.Test.String() + ":"
	}
	if len(c.Consequent) > 0 {
		out += " " + joinNodes(c.Consequent, " ")
	}
	return out
}

// IfStatement is `if (test) consequent [else alternate]`.
type IfStatement struct {
	BaseNode
	Test       Expression
	Consequent Statement
	Alternate  Statement // optional
}

func (is *IfStatement) statementNode() {}
func (is *IfStatement) String() string {
	out := "if (" + is.Test.String() + ") " + is.Consequent.String()
	if is.Alternate != nil {
		out += " else " + is.Alternate.String()
	}
	return out
}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	BaseNode
	Test Expression
	Body Statement
}

func (ws *WhileStatement) statementNode() {}
func (ws *WhileStatement) String() string {
	return "while (" + ws.Test.String() + ") " + ws.Body.String()
}

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	BaseNode
	Body Statement
	Test Expression
}

func (dw *DoWhileStatement) statementNode() {}
func (dw *DoWhileStatement) String() string {
	return "do " + dw.Body.String() + " while (" + dw.Test.String() + ");"
}

// ForStatement is the classic three-clause for loop. Init is a
// *VariableStatement or *ExpressionStatement.
type ForStatement struct {
	BaseNode
	Init   Statement  // optional
	Test   Expression // optional
	Update Expression // optional
	Body   Statement
}

func (fs *ForStatement) statementNode() {}
func (fs *ForStatement) String() string {
	out := "for ("
	if fs.Init != nil {
		out += strings.TrimSuffix(fs.Init.String(), ";")
	}
	out += ";"
	if fs.Test != nil {
		out += " " + fs.Test.String()
	}
	out += ";"
	if fs.Update != nil {
		out += " " + fs.Update.String()
	}
	return out + ") " + fs.Body.String()
}

// ForInOfStatement is `for (left in right)` or `for (left of right)`.
type ForInOfStatement struct {
	BaseNode
	Left  Statement // *VariableStatement or *ExpressionStatement
	Of    bool
	Right Expression
	Body  Statement
}

func (fs *ForInOfStatement) statementNode() {}
func (fs *ForInOfStatement) String() string {
	op := " in "
	if fs.Of {
		op = " of "
	}
	return "for (" + strings.TrimSuffix(fs.Left.String(), ";") + op + fs.Right.String() + ") " + fs.Body.String()
}

// ReturnStatement is `return [argument];`.
type ReturnStatement struct {
	BaseNode
	Argument Expression // optional
}

func (rs *ReturnStatement) statementNode() {}
func (rs *ReturnStatement) String() string {
	if rs.Argument == nil {
		return "return;"
	}
	return "return " + rs.Argument.String() + ";"
}

// BreakStatement is `break [label];`.
type BreakStatement struct {
	BaseNode
	Label *Identifier // optional
}

func (bs *BreakStatement) statementNode() {}
func (bs *BreakStatement) String() string {
	if bs.Label == nil {
		return "break;"
	}
	return "break " + bs.Label.String() + ";"
}

// ContinueStatement is `continue [label];`.
type ContinueStatement struct {
	BaseNode
	Label *Identifier // optional
}

func (cs *ContinueStatement) statementNode() {}
func (cs *ContinueStatement) String() string {
	if cs.Label == nil {
		return "continue;"
	}
	return "continue " + cs.Label.String() + ";"
}

// LabeledStatement is `label: body`; break and continue may name Label.
type LabeledStatement struct {
	BaseNode
	Label *Identifier
	Body  Statement
}

func (ls *LabeledStatement) statementNode() {}
func (ls *LabeledStatement) String() string {
	return ls.Label.String() + ": " + ls.Body.String()
}

// ThrowStatement is `throw argument;`.
type ThrowStatement struct {
	BaseNode
	Argument Expression
}

func (ts *ThrowStatement) statementNode() {}
func (ts *ThrowStatement) String() string { return "throw " + ts.Argument.String() + ";" }

// TryStatement is try/catch/finally.
type TryStatement struct {
	BaseNode
	Block     *Block
	Param     *Identifier // optional catch binding
	Handler   *Block      // optional
	Finalizer *Block      // optional
}

func (ts *TryStatement) statementNode() {}
func (ts *TryStatement) String() string {
	out := "try " + ts.Block.String()
	if ts.Handler != nil {
		out += " catch "
		if ts.Param != nil {
			out += "(" + ts.Param.String() + ") "
		}
		out += ts.Handler.String()
	}
	if ts.Finalizer != nil {
		out += " finally " + ts.Finalizer.String()
	}
	return out
}

// --- Class members ---

// PropertyDeclaration is a class field.
type PropertyDeclaration struct {
	BaseNode
	Modifiers ModifierFlags
	Name      Expression // *Identifier, *StringLiteral, *NumberLiteral or *ComputedPropertyName
	Optional  bool
	Type      TypeNode   // optional
	Init      Expression // optional
}

func (pd *PropertyDeclaration) statementNode() {}
func (pd *PropertyDeclaration) String() string {
	out := pd.Modifiers.String() + pd.Name.String()
	if pd.Optional {
		out += "?"
	}
	if pd.Type != nil {
		out += ": " + pd.Type.String()
	}
	if pd.Init != nil {
		out += " = " + pd.Init.String()
	}
	return out + ";"
}

// MethodDeclaration is a class method or constructor. Body is nil for
// overloads and abstract methods.
type MethodDeclaration struct {
	BaseNode
	Modifiers ModifierFlags
	Accessor  string // "get", "set" or ""
	Name      Expression
	Optional  bool
	Signature *CallSignature
	Body      *Block
}

// IsConstructor reports whether the method is the class constructor.
func (md *MethodDeclaration) IsConstructor() bool {
	id, ok := md.Name.(*Identifier)
	return ok && id.Name == "constructor"
}

func (md *MethodDeclaration) statementNode() {}
func (md *MethodDeclaration) String() string {
	out := md.Modifiers.String()
	if md.Accessor != "" {
		out += md.Accessor + " "
	}
	out += md.Name.String()
	if md.Optional {
		out += "?"
	}
	out += md.Signature.String()
	if md.Body == nil {
		return out + ";"
	}
	return out + " " + md.Body.String()
}

// --- helpers ---

func joinNodes[T Node](nodes []T, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}
