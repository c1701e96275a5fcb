package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/tsparse/pkg/errors"
	"github.com/nooga/tsparse/pkg/source"
)

// parseClean parses input and fails the test on any diagnostic.
func parseClean(t *testing.T, input string) *Program {
	t.Helper()
	res := Parse(input, "")
	for _, d := range res.Diagnostics {
		t.Errorf("unexpected diagnostic for %q: %s", input, d.Error())
	}
	require.NotNil(t, res.Program)
	return res.Program
}

// statementAt returns the i-th top-level statement as a T.
func statementAt[T Statement](t *testing.T, program *Program, i int) T {
	t.Helper()
	require.Greater(t, len(program.Statements), i, "program has too few statements")
	stmt, ok := program.Statements[i].(T)
	require.True(t, ok, "statement %d is %T", i, program.Statements[i])
	return stmt
}

func kindsOf(diags []*errors.Diagnostic) []errors.Kind {
	out := make([]errors.Kind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

// boundIdent returns a binding that must be a plain identifier.
func boundIdent(t *testing.T, name BindingName) *Identifier {
	t.Helper()
	id, ok := name.(*Identifier)
	require.True(t, ok, "binding is %T", name)
	return id
}

func names(ids []*Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}

// --- Blocks ---

func TestBlockKinds(t *testing.T) {
	program := parseClean(t, `function greet(name: string) { log(name); }
if (x > 10) { a(); } else { b(); }
{ let temp = 10; }
numbers.forEach((num) => { log(num * 2); });
class Person { name: string; }`)
	require.Len(t, program.Statements, 5)

	fn := statementAt[*FunctionDeclaration](t, program, 0)
	assert.Equal(t, BlockFunction, fn.Body.Kind)
	assert.Len(t, fn.Body.Statements, 1)

	ifStmt := statementAt[*IfStatement](t, program, 1)
	assert.Equal(t, BlockControl, ifStmt.Consequent.(*Block).Kind)
	assert.Equal(t, BlockControl, ifStmt.Alternate.(*Block).Kind)

	free := statementAt[*Block](t, program, 2)
	assert.Equal(t, BlockFreeStanding, free.Kind)
	assert.Len(t, free.Statements, 1)

	call := statementAt[*ExpressionStatement](t, program, 3).Expression.(*CallExpression)
	require.Len(t, call.Arguments, 1)
	arrow := call.Arguments[0].(*ArrowFunction)
	assert.Equal(t, BlockLambda, arrow.Body.(*Block).Kind)

	class := statementAt[*ClassDeclaration](t, program, 4)
	assert.Equal(t, BlockClassBody, class.Body.Kind)
	require.Len(t, class.Body.Statements, 1)
	assert.IsType(t, &PropertyDeclaration{}, class.Body.Statements[0])
}

func TestBlockSpanCoversBraces(t *testing.T) {
	input := "{ a; }"
	block := statementAt[*Block](t, parseClean(t, input), 0)
	assert.Equal(t, 0, block.Loc.Start)
	assert.Equal(t, len(input), block.Loc.End)
}

func TestEmptyBlock(t *testing.T) {
	block := statementAt[*Block](t, parseClean(t, "{}"), 0)
	assert.Empty(t, block.Statements)
}

// --- Call signatures ---

func TestCallSignatureInInterface(t *testing.T) {
	program := parseClean(t, `interface MyCallable {
    (x: number): string;
}`)
	iface := statementAt[*InterfaceDeclaration](t, program, 0)
	require.Len(t, iface.Members, 1)
	sig, ok := iface.Members[0].(*CallSignature)
	require.True(t, ok, "member is %T", iface.Members[0])
	require.Len(t, sig.Parameters, 1)
	assert.Equal(t, "x", boundIdent(t, sig.Parameters[0].Name).Name)
	assert.Equal(t, "number", sig.Parameters[0].Type.String())
	assert.Equal(t, "string", sig.ReturnType.String())
}

func TestCallSignatureOverloadsAreSiblings(t *testing.T) {
	program := parseClean(t, `interface MixedCallable {
    // Overload #1
    (value: number): number[];
    // Overload #2
    (value: string): string[];
    // Generic form
    <T>(value: T): T[];
}`)
	iface := statementAt[*InterfaceDeclaration](t, program, 0)
	require.Len(t, iface.Members, 3)
	for _, m := range iface.Members {
		assert.IsType(t, &CallSignature{}, m)
	}
	generic := iface.Members[2].(*CallSignature)
	require.Len(t, generic.TypeParameters, 1)
	assert.Equal(t, "T", generic.TypeParameters[0].Name.Name)
	assert.IsType(t, &ArrayType{}, generic.ReturnType)
}

func TestCallSignatureOptionalAndRest(t *testing.T) {
	program := parseClean(t, `interface AdvancedCallable {
    <T>(arg: T, optionalArg?: number, ...rest: string[]): T[];
}`)
	sig := statementAt[*InterfaceDeclaration](t, program, 0).Members[0].(*CallSignature)
	require.Len(t, sig.Parameters, 3)
	assert.False(t, sig.Parameters[0].Optional)
	assert.True(t, sig.Parameters[1].Optional)
	assert.True(t, sig.Parameters[2].Rest)
	assert.Equal(t, "string[]", sig.Parameters[2].Type.String())
}

func TestCallSignatureInTypeLiteral(t *testing.T) {
	program := parseClean(t, `type MyFormatter = {
    (value: string): string;
};`)
	alias := statementAt[*TypeAliasDeclaration](t, program, 0)
	lit, ok := alias.Type.(*TypeLiteral)
	require.True(t, ok, "type is %T", alias.Type)
	require.Len(t, lit.Members, 1)
	assert.IsType(t, &CallSignature{}, lit.Members[0])
}

func TestRestMustBeLast(t *testing.T) {
	res := Parse(`interface Bad { (...rest: string[], last: number): void; }`, "")
	assert.Equal(t, []errors.Kind{errors.RestMustBeLast}, kindsOf(res.Diagnostics))

	iface := statementAt[*InterfaceDeclaration](t, res.Program, 0)
	sig := iface.Members[0].(*CallSignature)
	assert.Len(t, sig.Parameters, 2, "both parameters are kept")
}

func TestConstructAndIndexSignatures(t *testing.T) {
	program := parseClean(t, `interface Ctor {
    new (x: number): Ctor;
    readonly [key: string]: number;
    size?: number;
    get(k: string): number;
}`)
	members := statementAt[*InterfaceDeclaration](t, program, 0).Members
	require.Len(t, members, 4)
	assert.IsType(t, &ConstructSignature{}, members[0])
	index := members[1].(*IndexSignature)
	assert.True(t, index.Modifiers.Has(ModReadonly))
	assert.Equal(t, "key", boundIdent(t, index.Parameter.Name).Name)
	prop := members[2].(*PropertySignature)
	assert.True(t, prop.Optional)
	assert.IsType(t, &MethodSignature{}, members[3])
}

// --- Switch ---

func TestSwitchFallthrough(t *testing.T) {
	program := parseClean(t, `switch(x){case 10: case 11: case 12: console.log("a"); break; default: console.log("b");}`)
	sw := statementAt[*SwitchStatement](t, program, 0)
	require.Len(t, sw.Cases, 4)

	var falls []bool
	for _, c := range sw.Cases {
		falls = append(falls, c.FallsThrough)
	}
	assert.Equal(t, []bool{true, true, false, false}, falls)
	assert.Nil(t, sw.Cases[3].Test, "default clause has no test")
	assert.Len(t, sw.Cases[2].Consequent, 2)
}

func TestSwitchFallthroughRules(t *testing.T) {
	tests := []struct {
		input    string
		expected []bool
	}{
		{`switch (x) { case 1: f(); case 2: g(); }`, []bool{true, false}},
		{`switch (x) { case 1: return; case 2: throw e; case 3: continue; }`, []bool{false, false, false}},
		{`switch (x) { case 1: { break; } case 2: }`, []bool{true, true}},
		{`switch (x) { default: }`, []bool{true}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sw := statementAt[*SwitchStatement](t, parseClean(t, tt.input), 0)
			var falls []bool
			for _, c := range sw.Cases {
				falls = append(falls, c.FallsThrough)
			}
			assert.Equal(t, tt.expected, falls)
		})
	}
}

func TestSwitchDuplicateDefault(t *testing.T) {
	input := `switch (x) { default: a(); default: b(); }`
	res := Parse(input, "")
	require.Equal(t, []errors.Kind{errors.DuplicateDefaultCase}, kindsOf(res.Diagnostics))
	assert.Equal(t, 27, res.Diagnostics[0].Position.StartPos, "reported at the second 'default'")

	sw := statementAt[*SwitchStatement](t, res.Program, 0)
	assert.Len(t, sw.Cases, 1)
}

func TestSwitchBadLabelRecovers(t *testing.T) {
	res := Parse(`switch (x) { foo; case 1: a(); }`, "")
	assert.Equal(t, []errors.Kind{errors.UnexpectedToken}, kindsOf(res.Diagnostics))
	sw := statementAt[*SwitchStatement](t, res.Program, 0)
	require.Len(t, sw.Cases, 1)
	assert.NotNil(t, sw.Cases[0].Test)
}

// --- Identifiers ---

func TestIdentifierRoles(t *testing.T) {
	program := parseClean(t, `let myVariable = 10;
function doSomething() {}
class Person {}
const user = { myVariable };
foo(bar);`)

	decl := statementAt[*VariableStatement](t, program, 0).Declarations[0]
	assert.Equal(t, RoleDeclaration, boundIdent(t, decl.Name).Role)
	assert.Equal(t, RoleDeclaration, statementAt[*FunctionDeclaration](t, program, 1).Name.Role)
	assert.Equal(t, RoleDeclaration, statementAt[*ClassDeclaration](t, program, 2).Name.Role)

	obj := statementAt[*VariableStatement](t, program, 3).Declarations[0].Init.(*ObjectLiteral)
	require.Len(t, obj.Properties, 1)
	prop := obj.Properties[0].(*Property)
	assert.True(t, prop.Shorthand)
	assert.Nil(t, prop.Value)
	key := prop.Key.(*Identifier)
	assert.Equal(t, "myVariable", key.Name)
	assert.Equal(t, RolePropertyShorthand, key.Role)

	call := statementAt[*ExpressionStatement](t, program, 4).Expression.(*CallExpression)
	assert.Equal(t, RoleReference, call.Callee.(*Identifier).Role)
	assert.Equal(t, RoleReference, call.Arguments[0].(*Identifier).Role)
}

func TestIdentifierSpecialCharacters(t *testing.T) {
	program := parseClean(t, `const _hidden = 42;
const $element = document.getElementById("some-id");`)
	assert.Equal(t, "_hidden", boundIdent(t, statementAt[*VariableStatement](t, program, 0).Declarations[0].Name).Name)
	assert.Equal(t, "$element", boundIdent(t, statementAt[*VariableStatement](t, program, 1).Declarations[0].Name).Name)
}

func TestIdentifierNormalization(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	decomposed := "cafe\u0301"
	program := parseClean(t, "let "+decomposed+" = 1;")
	name := boundIdent(t, statementAt[*VariableStatement](t, program, 0).Declarations[0].Name)
	assert.Equal(t, "caf\u00e9", name.Name)
	assert.Equal(t, 4, name.Loc.Start)
	assert.Equal(t, 4+len(decomposed), name.Loc.End, "span keeps the source bytes")
}

// --- Binding patterns ---

// declaredNames collects every identifier under node that declares a name.
func declaredNames(node Node) []string {
	var out []string
	Inspect(node, func(n Node) bool {
		if id, ok := n.(*Identifier); ok && id.Role == RoleDeclaration {
			out = append(out, id.Name)
		}
		return true
	})
	return out
}

func TestObjectBindingPattern(t *testing.T) {
	program := parseClean(t, "const {a, b: c, d = 1, ...rest} = obj;")
	decl := statementAt[*VariableStatement](t, program, 0).Declarations[0]
	pat, ok := decl.Name.(*ObjectBindingPattern)
	require.True(t, ok, "binding is %T", decl.Name)
	require.Len(t, pat.Elements, 4)

	assert.Nil(t, pat.Elements[0].PropertyName)
	assert.Equal(t, "b", pat.Elements[1].PropertyName.(*Identifier).Name)
	assert.Equal(t, RoleReference, pat.Elements[1].PropertyName.(*Identifier).Role)
	assert.Equal(t, "1", pat.Elements[2].Initializer.String())
	assert.True(t, pat.Elements[3].Rest)

	assert.Equal(t, []string{"a", "c", "d", "rest"}, declaredNames(decl.Name))
	assert.Equal(t, "const { a, b: c, d = 1, ...rest } = obj;", program.Statements[0].String())
	assert.Equal(t, source.Span{Start: 6, End: 31}, pat.Span())
}

func TestArrayBindingPattern(t *testing.T) {
	program := parseClean(t, "let [x, , [y, z] = [], ...tail] = list;")
	decl := statementAt[*VariableStatement](t, program, 0).Declarations[0]
	pat, ok := decl.Name.(*ArrayBindingPattern)
	require.True(t, ok, "binding is %T", decl.Name)
	require.Len(t, pat.Elements, 4)
	assert.Nil(t, pat.Elements[1], "hole")
	assert.IsType(t, &ArrayBindingPattern{}, pat.Elements[2].Name)
	assert.True(t, pat.Elements[3].Rest)

	assert.Equal(t, []string{"x", "y", "z", "tail"}, declaredNames(decl.Name))
	assert.Equal(t, "let [x, , [y, z] = [], ...tail] = list;", program.Statements[0].String())
}

func TestParameterBindingPatterns(t *testing.T) {
	program := parseClean(t, `function f({a, b}: Opts) {}
function g([a, b]) {}
const h = ({ key: k }) => k;`)

	f := statementAt[*FunctionDeclaration](t, program, 0)
	require.Len(t, f.Signature.Parameters, 1)
	param := f.Signature.Parameters[0]
	assert.IsType(t, &ObjectBindingPattern{}, param.Name)
	assert.Equal(t, "Opts", param.Type.String())
	assert.Equal(t, []string{"a", "b"}, declaredNames(param))

	g := statementAt[*FunctionDeclaration](t, program, 1)
	assert.IsType(t, &ArrayBindingPattern{}, g.Signature.Parameters[0].Name)
	assert.Equal(t, []string{"g", "a", "b"}, declaredNames(g))

	h := statementAt[*VariableStatement](t, program, 2).Declarations[0].Init.(*ArrowFunction)
	assert.Equal(t, []string{"k"}, declaredNames(h.Signature))
}

func TestBindingPatternInForOf(t *testing.T) {
	program := parseClean(t, "for (const [k, v] of entries) {}")
	loop := statementAt[*ForInOfStatement](t, program, 0)
	assert.Equal(t, []string{"k", "v"}, declaredNames(loop))
}

func TestBindingPatternErrors(t *testing.T) {
	for _, input := range []string{
		"const {a,, b} = o;",
		"let [...rest, x] = l;",
		"const {a: } = o;",
	} {
		res := Parse(input, "")
		assert.NotEmpty(t, res.Diagnostics, input)
	}
}

// --- Imports ---

func TestImportTypeOnly(t *testing.T) {
	program := parseClean(t, `import type { SomeType } from "./types";`)
	ic := statementAt[*ImportClause](t, program, 0)
	assert.True(t, ic.IsTypeOnly)
	assert.False(t, ic.IsSideEffectOnly)
	assert.Nil(t, ic.DefaultBinding)
	assert.Nil(t, ic.NamespaceBinding)
	require.Len(t, ic.NamedBindings, 1)
	spec := ic.NamedBindings[0]
	assert.Equal(t, "SomeType", spec.Name.Name)
	assert.False(t, spec.IsAlias)
	assert.Nil(t, spec.Alias)
	assert.Equal(t, "./types", ic.ModuleSpecifier.Value)
	assert.True(t, program.IsExternalModule)
}

func TestImportForms(t *testing.T) {
	tests := []struct {
		input     string
		dflt      string
		namespace string
		named     []string
		aliases   []string
		module    string
		sideEff   bool
	}{
		{input: `import React from "react";`, dflt: "React", module: "react"},
		{input: `import { useState, useEffect } from "react";`, named: []string{"useState", "useEffect"}, aliases: []string{"", ""}, module: "react"},
		{input: `import ReactDOM, { render } from "react-dom";`, dflt: "ReactDOM", named: []string{"render"}, aliases: []string{""}, module: "react-dom"},
		{input: `import * as MyLib from "./MyLib";`, namespace: "MyLib", module: "./MyLib"},
		{input: `import Def, * as NS from "m";`, dflt: "Def", namespace: "NS", module: "m"},
		{input: `import { a as alpha, b, c as charlie } from "./AnotherLib";`, named: []string{"a", "b", "c"}, aliases: []string{"alpha", "", "charlie"}, module: "./AnotherLib"},
		{input: `import "./setup";`, module: "./setup", sideEff: true},
		{input: `import type from "m";`, dflt: "type", module: "m"},
		{input: `import { default as x } from "m";`, named: []string{"default"}, aliases: []string{"x"}, module: "m"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ic := statementAt[*ImportClause](t, parseClean(t, tt.input), 0)
			assert.Equal(t, tt.sideEff, ic.IsSideEffectOnly)
			assert.Equal(t, tt.module, ic.ModuleSpecifier.Value)
			if tt.dflt == "" {
				assert.Nil(t, ic.DefaultBinding)
			} else {
				require.NotNil(t, ic.DefaultBinding)
				assert.Equal(t, tt.dflt, ic.DefaultBinding.Name)
			}
			if tt.namespace == "" {
				assert.Nil(t, ic.NamespaceBinding)
			} else {
				require.NotNil(t, ic.NamespaceBinding)
				assert.Equal(t, tt.namespace, ic.NamespaceBinding.Name)
			}
			require.Len(t, ic.NamedBindings, len(tt.named))
			for i, spec := range ic.NamedBindings {
				assert.Equal(t, tt.named[i], spec.Name.Name)
				if tt.aliases[i] == "" {
					assert.False(t, spec.IsAlias)
					assert.Equal(t, RoleDeclaration, spec.Name.Role)
				} else {
					assert.True(t, spec.IsAlias)
					assert.Equal(t, tt.aliases[i], spec.Alias.Name)
					assert.Equal(t, RoleReference, spec.Name.Role)
					assert.Equal(t, RoleDeclaration, spec.Alias.Role)
				}
			}
		})
	}
}

func TestImportInlineTypeSpecifier(t *testing.T) {
	ic := statementAt[*ImportClause](t, parseClean(t, `import { type A, type as B, type } from "m";`), 0)
	require.Len(t, ic.NamedBindings, 3)
	assert.True(t, ic.NamedBindings[0].IsTypeOnly)
	assert.Equal(t, "A", ic.NamedBindings[0].Name.Name)
	assert.False(t, ic.NamedBindings[1].IsTypeOnly)
	assert.Equal(t, "type", ic.NamedBindings[1].Name.Name)
	assert.Equal(t, "B", ic.NamedBindings[1].Alias.Name)
	assert.Equal(t, "type", ic.NamedBindings[2].Name.Name)
}

func TestImportAttributes(t *testing.T) {
	ic := statementAt[*ImportClause](t, parseClean(t, `import data from "./d.json" with { type: "json" };`), 0)
	require.Len(t, ic.Attributes, 1)
	assert.Equal(t, "type", ic.Attributes[0].Key.Name)
	assert.Equal(t, "json", ic.Attributes[0].Value.Value)
}

func TestImportMissingModuleSpecifier(t *testing.T) {
	tests := []string{
		"import { a } ;\nconst b = 1;",
		"import React;\nconst b = 1;",
		"import * as NS from;\nconst b = 1;",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			res := Parse(input, "")
			require.Equal(t, []errors.Kind{errors.MissingModuleSpecifier}, kindsOf(res.Diagnostics))
			assert.Equal(t, 0, res.Diagnostics[0].Position.StartPos, "reported over the import statement")

			require.Len(t, res.Program.Statements, 1, "the broken import is dropped")
			assert.IsType(t, &VariableStatement{}, res.Program.Statements[0])
		})
	}
}

// --- Exports ---

func TestExportForms(t *testing.T) {
	program := parseClean(t, `export const a = 1;
export default function () {}
export { a as b, c };
export * from "m";
export * as ns from "m";
export type { T } from "./t";
export = thing;
export declare namespace N {}`)
	require.Len(t, program.Statements, 8)

	assert.True(t, statementAt[*VariableStatement](t, program, 0).Modifiers.Has(ModExport))

	fn := statementAt[*FunctionDeclaration](t, program, 1)
	assert.True(t, fn.Modifiers.Has(ModExport|ModDefault))
	assert.Nil(t, fn.Name)

	list := statementAt[*ExportDeclaration](t, program, 2)
	require.Len(t, list.Specifiers, 2)
	assert.Equal(t, "b", list.Specifiers[0].Alias.Name)
	assert.Nil(t, list.ModuleSpecifier)

	star := statementAt[*ExportDeclaration](t, program, 3)
	assert.True(t, star.IsNamespace)
	assert.Equal(t, "m", star.ModuleSpecifier.Value)

	assert.Equal(t, "ns", statementAt[*ExportDeclaration](t, program, 4).NamespaceAlias.Name)
	assert.True(t, statementAt[*ExportDeclaration](t, program, 5).IsTypeOnly)
	assert.True(t, statementAt[*ExportAssignment](t, program, 6).IsExportEquals)

	ns := statementAt[*ModuleDeclaration](t, program, 7)
	assert.True(t, ns.Modifiers.Has(ModExport|ModDeclare))
	assert.True(t, program.IsExternalModule)
}

func TestScriptIsNotExternalModule(t *testing.T) {
	assert.False(t, parseClean(t, `const a = 1;`).IsExternalModule)
	assert.True(t, parseClean(t, `const url = import.meta.url;`).IsExternalModule)
}

// --- Module declarations ---

func TestNamespaceDottedPath(t *testing.T) {
	program := parseClean(t, `namespace Outer.Inner { export const value = 42; }`)
	require.Len(t, program.Statements, 1)
	md := statementAt[*ModuleDeclaration](t, program, 0)
	assert.Equal(t, ModuleNamespace, md.Kind)
	assert.Equal(t, []string{"Outer", "Inner"}, names(md.PathSegments))
	for _, seg := range md.PathSegments {
		assert.Equal(t, RoleDeclaration, seg.Role)
	}
	assert.Nil(t, md.Name)
	require.NotNil(t, md.Body)
	require.Len(t, md.Body.Statements, 1)
	assert.True(t, md.Body.Statements[0].(*VariableStatement).Modifiers.Has(ModExport))
}

func TestModuleKeywordNamespace(t *testing.T) {
	md := statementAt[*ModuleDeclaration](t, parseClean(t, `module A.B.C {}`), 0)
	assert.Equal(t, ModuleNamespace, md.Kind)
	assert.Equal(t, []string{"A", "B", "C"}, names(md.PathSegments))
}

func TestAmbientModule(t *testing.T) {
	program := parseClean(t, `declare module "my-external-module" {
    export function doSomething(): void;
}
declare module "empty-module";`)
	require.Len(t, program.Statements, 2)

	withBody := statementAt[*ModuleDeclaration](t, program, 0)
	assert.Equal(t, ModuleAmbient, withBody.Kind)
	assert.True(t, withBody.Modifiers.Has(ModDeclare))
	assert.Equal(t, "my-external-module", withBody.Name.Value)
	assert.Empty(t, withBody.PathSegments)
	require.NotNil(t, withBody.Body)
	fn := withBody.Body.Statements[0].(*FunctionDeclaration)
	assert.Nil(t, fn.Body)

	noBody := statementAt[*ModuleDeclaration](t, program, 1)
	assert.Equal(t, ModuleAmbient, noBody.Kind)
	assert.Equal(t, "empty-module", noBody.Name.Value)
	assert.Nil(t, noBody.Body)
}

func TestGlobalAugmentation(t *testing.T) {
	md := statementAt[*ModuleDeclaration](t, parseClean(t, `declare global {
    interface String {
        customMethod(): void;
    }
}`), 0)
	assert.Equal(t, ModuleGlobal, md.Kind)
	assert.Empty(t, md.PathSegments)
	require.Len(t, md.Body.Statements, 1)
	assert.IsType(t, &InterfaceDeclaration{}, md.Body.Statements[0])
}

func TestNamespaceInvalidQualifiedName(t *testing.T) {
	res := Parse("namespace A. { }\nconst b = 1;", "")
	require.Equal(t, []errors.Kind{errors.InvalidQualifiedName}, kindsOf(res.Diagnostics))
	md := statementAt[*ModuleDeclaration](t, res.Program, 0)
	assert.Equal(t, []string{"A"}, names(md.PathSegments))
	assert.IsType(t, &VariableStatement{}, res.Program.Statements[1])
}

// --- Qualified names ---

func TestQualifiedNames(t *testing.T) {
	program := parseClean(t, `let variable: MyNamespace.MyClass;
interface SubInterface extends MyNamespace.MyClass {}
let nestedVar: Outer.Inner.NestedInterface;
type AliasType = Outer.Inner.NestedInterface;
let plain: Foo;`)

	ref := statementAt[*VariableStatement](t, program, 0).Declarations[0].Type.(*TypeReference)
	qn := ref.TypeName.(*QualifiedName)
	assert.Equal(t, []string{"MyNamespace", "MyClass"}, names(qn.Segments))

	iface := statementAt[*InterfaceDeclaration](t, program, 1)
	require.Len(t, iface.Extends, 1)
	assert.Equal(t, "MyNamespace.MyClass", iface.Extends[0].TypeName.String())

	nested := statementAt[*VariableStatement](t, program, 2).Declarations[0].Type.(*TypeReference)
	assert.Len(t, nested.TypeName.(*QualifiedName).Segments, 3)

	alias := statementAt[*TypeAliasDeclaration](t, program, 3).Type.(*TypeReference)
	assert.Equal(t, "Outer.Inner.NestedInterface", alias.TypeName.String())

	plain := statementAt[*VariableStatement](t, program, 4).Declarations[0].Type.(*TypeReference)
	assert.IsType(t, &Identifier{}, plain.TypeName, "a single segment is never wrapped")
}

func TestQualifiedNameSpan(t *testing.T) {
	input := "let v: A.B.C;"
	ref := statementAt[*VariableStatement](t, parseClean(t, input), 0).Declarations[0].Type.(*TypeReference)
	qn := ref.TypeName.(*QualifiedName)
	assert.Equal(t, "A.B.C", input[qn.Loc.Start:qn.Loc.End])
}

func TestQualifiedNameTrailingDot(t *testing.T) {
	res := Parse("let v: A.;\nlet w = 1;", "")
	require.Equal(t, []errors.Kind{errors.InvalidQualifiedName}, kindsOf(res.Diagnostics))
	ref := statementAt[*VariableStatement](t, res.Program, 0).Declarations[0].Type.(*TypeReference)
	assert.IsType(t, &Identifier{}, ref.TypeName)
	assert.Len(t, res.Program.Statements, 2)
}

// --- Type queries ---

func TestTypeQueries(t *testing.T) {
	program := parseClean(t, `type T1 = typeof someVar;
type T3 = typeof MyClass.prop;
type T5 = typeof import("some-module");
type T6 = typeof import("m").Config;`)

	t1 := statementAt[*TypeAliasDeclaration](t, program, 0).Type.(*TypeQuery)
	assert.False(t, t1.IsImportType)
	assert.Equal(t, "someVar", t1.ExprName.(*Identifier).Name)

	t3 := statementAt[*TypeAliasDeclaration](t, program, 1).Type.(*TypeQuery)
	assert.Equal(t, []string{"MyClass", "prop"}, names(t3.ExprName.(*QualifiedName).Segments))

	t5 := statementAt[*TypeAliasDeclaration](t, program, 2).Type.(*TypeQuery)
	assert.True(t, t5.IsImportType)
	assert.Equal(t, "some-module", t5.ImportSpecifier.Value)
	assert.Nil(t, t5.ExprName)

	t6 := statementAt[*TypeAliasDeclaration](t, program, 3).Type.(*TypeQuery)
	assert.True(t, t6.IsImportType)
	assert.Equal(t, "Config", t6.ExprName.String())
}

func TestTypeQueryInTypeAnnotation(t *testing.T) {
	program := parseClean(t, `let q: typeof import("some-module") = null;`)
	decl := statementAt[*VariableStatement](t, program, 0).Declarations[0]
	tq := decl.Type.(*TypeQuery)
	assert.Equal(t, "some-module", tq.ImportSpecifier.Value)
	assert.IsType(t, &NullLiteral{}, decl.Init)
}

func TestTypeForms(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"type A = string | number;", "string | number"},
		{"type A = | 'a' | 'b';", `"a" | "b"`},
		{"type A = X & Y;", "X & Y"},
		{"type A = keyof T;", "keyof T"},
		{"type A = T[K][];", "T[K][]"},
		{"type A = [string, ...number[]];", "[string, ...number[]]"},
		{"type A = (a: string) => void;", "(a: string) => void"},
		{"type A = new () => Foo;", "new () => Foo"},
		{"type A = Map<string, Array<number>>;", "Map<string, Array<number>>"},
		{"type A = -1;", "(-1)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			alias := statementAt[*TypeAliasDeclaration](t, parseClean(t, tt.input), 0)
			assert.Equal(t, tt.expected, alias.Type.String())
		})
	}
}

// --- Expressions ---

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b * c;", "(a + (b * c));"},
		{"a || b && c;", "(a || (b && c));"},
		{"a = b = c;", "a = b = c;"},
		{"a = b || c;", "a = (b || c);"},
		{"a ? b : c ? d : e;", "(a ? b : (c ? d : e));"},
		{"-a.b;", "(-a.b);"},
		{"a ?? b;", "(a ?? b);"},
		{"x as T;", "(x as T);"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := parseClean(t, tt.input)
			assert.Equal(t, tt.expected, program.Statements[0].String())
		})
	}
}

func TestGenericCallSpeculation(t *testing.T) {
	program := parseClean(t, "f<T>(x);\na < b;")
	call := statementAt[*ExpressionStatement](t, program, 0).Expression.(*CallExpression)
	require.Len(t, call.TypeArguments, 1)
	assert.Equal(t, "T", call.TypeArguments[0].String())

	cmp := statementAt[*ExpressionStatement](t, program, 1).Expression.(*BinaryExpression)
	assert.Equal(t, "<", cmp.Operator)
}

func TestArrowFunctions(t *testing.T) {
	program := parseClean(t, `const f = (a: number, b?: string): void => { g(); };
const h = x => x + 1;
const k = async (y) => y;`)
	f := statementAt[*VariableStatement](t, program, 0).Declarations[0].Init.(*ArrowFunction)
	assert.Len(t, f.Signature.Parameters, 2)
	assert.Equal(t, "void", f.Signature.ReturnType.String())

	h := statementAt[*VariableStatement](t, program, 1).Declarations[0].Init.(*ArrowFunction)
	require.Len(t, h.Signature.Parameters, 1)
	assert.IsType(t, &BinaryExpression{}, h.Body)

	assert.IsType(t, &ArrowFunction{}, statementAt[*VariableStatement](t, program, 2).Declarations[0].Init)
}

func TestNestedParenthesesParseQuickly(t *testing.T) {
	const depth = 40
	tests := []string{
		"x = " + strings.Repeat("(a = ", depth) + "1" + strings.Repeat(")", depth) + ";",
		"let t: " + strings.Repeat("(", depth) + "string" + strings.Repeat(")", depth) + ";",
		"f" + strings.Repeat("(a, (b) => g", depth) + "(c)" + strings.Repeat(")", depth) + ";",
	}
	for _, input := range tests {
		start := time.Now()
		parseClean(t, input)
		assert.Less(t, time.Since(start), time.Second, input)
	}
}

func TestParenthesizedIsNotArrow(t *testing.T) {
	program := parseClean(t, "(a + b) * c;")
	expr := statementAt[*ExpressionStatement](t, program, 0).Expression.(*BinaryExpression)
	assert.IsType(t, &ParenthesizedExpression{}, expr.Left)
}

func TestLabeledStatements(t *testing.T) {
	program := parseClean(t, `outer: for (;;) {
    inner: while (x) { break outer; }
    continue inner;
}
done: {}`)
	require.Len(t, program.Statements, 2)
	outer := statementAt[*LabeledStatement](t, program, 0)
	assert.Equal(t, "outer", outer.Label.Name)
	assert.Equal(t, RoleDeclaration, outer.Label.Role)
	loop, ok := outer.Body.(*ForStatement)
	require.True(t, ok, "body is %T", outer.Body)

	inner := loop.Body.(*Block).Statements[0].(*LabeledStatement)
	assert.Equal(t, "inner", inner.Label.Name)
	brk := inner.Body.(*WhileStatement).Body.(*Block).Statements[0].(*BreakStatement)
	assert.Equal(t, RoleReference, brk.Label.Role)

	assert.IsType(t, &Block{}, statementAt[*LabeledStatement](t, program, 1).Body)
	assert.Equal(t, "a: b;", parseClean(t, "a: b;").Statements[0].String())
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	program := parseClean(t, "let a = 1\nlet b = 2\nreturn\nx")
	require.Len(t, program.Statements, 4)
	assert.Nil(t, statementAt[*ReturnStatement](t, program, 2).Argument)
}

func TestMissingSemicolonOnSameLine(t *testing.T) {
	res := Parse("let a = 1 let b = 2", "")
	assert.Equal(t, []errors.Kind{errors.UnexpectedToken}, kindsOf(res.Diagnostics))
	assert.Len(t, res.Program.Statements, 2)
}

// --- Classes ---

func TestClassMembers(t *testing.T) {
	program := parseClean(t, `abstract class Shape<T> extends Base implements A, B.C {
    static prop = 123;
    private readonly id: string;
    constructor(public name: string) { this.name = name; }
    get area(): number { return 0; }
    abstract draw(): void;
    [key: string]: any;
}`)
	class := statementAt[*ClassDeclaration](t, program, 0)
	assert.True(t, class.Modifiers.Has(ModAbstract))
	assert.Len(t, class.TypeParameters, 1)
	assert.Equal(t, "Base", class.Extends.String())
	assert.Len(t, class.Implements, 2)

	members := class.Body.Statements
	require.Len(t, members, 6)
	assert.True(t, members[0].(*PropertyDeclaration).Modifiers.Has(ModStatic))
	assert.True(t, members[1].(*PropertyDeclaration).Modifiers.Has(ModPrivate|ModReadonly))
	ctor := members[2].(*MethodDeclaration)
	assert.True(t, ctor.Signature.Parameters[0].Modifiers.Has(ModPublic))
	assert.Equal(t, "get", members[3].(*MethodDeclaration).Accessor)
	assert.Nil(t, members[4].(*MethodDeclaration).Body)
	assert.IsType(t, &IndexSignature{}, members[5])
}

// --- Options ---

func TestMaxErrors(t *testing.T) {
	input := "a b\nc d\ne f\ng h\n"
	res := Parse(input, "", WithMaxErrors(2))
	require.Len(t, res.Diagnostics, 3)
	assert.Equal(t, errors.TooManyErrors, res.Diagnostics[2].Kind)

	all := Parse(input, "")
	assert.Len(t, all.Diagnostics, 4)
}

func TestLeadingComments(t *testing.T) {
	input := "// first\nlet a = 1;\n/* second */ function f() {\n  // inner\n  return;\n}\nb();"
	res := Parse(input, "", WithComments(true))
	require.Empty(t, res.Diagnostics)
	cm := res.Program.Comments
	require.Len(t, cm, 3)

	first := cm[res.Program.Statements[0]]
	require.Len(t, first, 1)
	assert.Equal(t, "// first", first[0].Text)
	assert.False(t, first[0].Block)

	fn := statementAt[*FunctionDeclaration](t, res.Program, 1)
	second := cm[fn]
	require.Len(t, second, 1)
	assert.Equal(t, "/* second */", second[0].Text)
	assert.True(t, second[0].Block)

	inner := cm[fn.Body.Statements[0]]
	require.Len(t, inner, 1)
	assert.Equal(t, "// inner", inner[0].Text)
	assert.Equal(t, 4, inner[0].Span.Line)
	assert.Nil(t, cm[res.Program.Statements[2]])

	assert.Nil(t, Parse(input, "").Program.Comments)
}

func TestLeadingCommentsSkipRolledBackStatements(t *testing.T) {
	// The function body is first parsed as a parameter initializer of an
	// arrow head, abandoned when no '=>' follows, then parsed again.
	res := Parse("x = (a = function () {\n  // kept\n  g();\n});", "", WithComments(true))
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Program.Comments, 1)
	var found bool
	Inspect(res.Program, func(n Node) bool {
		if s, ok := n.(Statement); ok && len(res.Program.Comments[s]) > 0 {
			found = true
		}
		return true
	})
	assert.True(t, found)
}

func TestParseResultErr(t *testing.T) {
	ok := Parse("let a = 1;", "ok.ts")
	assert.False(t, ok.HasErrors())
	assert.NoError(t, ok.Err())

	bad := Parse("let = 1;", "bad.ts")
	assert.True(t, bad.HasErrors())
	require.Error(t, bad.Err())
	assert.Contains(t, bad.Err().Error(), "bad.ts")
}

func TestParseIsDeterministic(t *testing.T) {
	input := `import { a, b as c } from "m";
namespace N.M { export type T = typeof a; }
switch (x) { case 1: case 2: f(); default: g(); }
import { from "x";
let broken = ;`
	first := Parse(input, "det.ts")
	second := Parse(input, "det.ts")
	assert.Equal(t, NewDumper().Dump(first.Program), NewDumper().Dump(second.Program))
	require.Len(t, second.Diagnostics, len(first.Diagnostics))
	for i := range first.Diagnostics {
		assert.Equal(t, first.Diagnostics[i].Error(), second.Diagnostics[i].Error())
	}
}
