package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/tsparse/pkg/errors"
)

func TestRecoveryUnclosedImportBraces(t *testing.T) {
	res := Parse(`import { from "x";
import b from "b";
let c = 1;`, "")

	require.Equal(t, []errors.Kind{errors.UnexpectedToken}, kindsOf(res.Diagnostics))
	require.Len(t, res.Program.Statements, 2)
	ic := statementAt[*ImportClause](t, res.Program, 0)
	assert.Equal(t, "b", ic.DefaultBinding.Name)
	assert.Equal(t, "c", boundIdent(t, statementAt[*VariableStatement](t, res.Program, 1).Declarations[0].Name).Name)
}

func TestRecoveryUnterminatedBlockReportedOnce(t *testing.T) {
	res := Parse("function f() {\n  if (x) {\n    g();\n", "")
	require.Equal(t, []errors.Kind{errors.UnterminatedBlock}, kindsOf(res.Diagnostics))

	fn := statementAt[*FunctionDeclaration](t, res.Program, 0)
	require.NotNil(t, fn.Body, "the partial body is kept")
	require.Len(t, fn.Body.Statements, 1)
	inner := fn.Body.Statements[0].(*IfStatement).Consequent.(*Block)
	assert.Len(t, inner.Statements, 1)
}

func TestRecoveryUnterminatedNamespace(t *testing.T) {
	res := Parse("namespace N {\n  export const a = 1;\n", "")
	require.Equal(t, []errors.Kind{errors.UnterminatedBlock}, kindsOf(res.Diagnostics))
	md := statementAt[*ModuleDeclaration](t, res.Program, 0)
	assert.Len(t, md.Body.Statements, 1)
}

func TestRecoveryUnterminatedStringSuppressesCascade(t *testing.T) {
	res := Parse(`let s = "abc`, "")
	assert.Equal(t, []errors.Kind{errors.UnterminatedString}, kindsOf(res.Diagnostics))
}

func TestRecoveryUnterminatedLiteralInArrowHead(t *testing.T) {
	// The literal is first read while trying an arrow function head.
	tests := []struct {
		input string
		kind  errors.Kind
	}{
		{"let f = (a = `abc", errors.UnterminatedTemplate},
		{`let h = (a = "abc`, errors.UnterminatedString},
		{"let g = (a = /* abc", errors.UnterminatedComment},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Parse(tt.input, "")
			assert.Equal(t, []errors.Kind{tt.kind}, kindsOf(res.Diagnostics))
		})
	}
}

func TestRecoveryMissingSemicolonReportedOnce(t *testing.T) {
	tests := []struct {
		input      string
		statements int
	}{
		{"enum E { A, B }", 1},
		{"a b c;\nlet d = 1;", 2},
		{"x = 1 y = 2\nz();", 2},
		{"label:", 0},
		{"if (x) a b\nc();", 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Parse(tt.input, "")
			assert.Equal(t, []errors.Kind{errors.UnexpectedToken}, kindsOf(res.Diagnostics))
			assert.Len(t, res.Program.Statements, tt.statements)
		})
	}
}

func TestRecoveryStrayCloseBrace(t *testing.T) {
	res := Parse("}\nlet a = 1;", "")
	assert.Equal(t, []errors.Kind{errors.UnexpectedToken}, kindsOf(res.Diagnostics))
	require.Len(t, res.Program.Statements, 1)
	assert.IsType(t, &VariableStatement{}, res.Program.Statements[0])
}

func TestRecoveryInsideFunctionBody(t *testing.T) {
	res := Parse("function f() {\n  let = 1;\n  g();\n}\nh();", "")
	assert.Equal(t, []errors.Kind{errors.UnexpectedToken}, kindsOf(res.Diagnostics))
	require.Len(t, res.Program.Statements, 2)

	fn := statementAt[*FunctionDeclaration](t, res.Program, 0)
	require.Len(t, fn.Body.Statements, 1)
	assert.Equal(t, "g();", fn.Body.Statements[0].String())
	assert.Equal(t, "h();", res.Program.Statements[1].String())
}

func TestRecoveryStopsAtNextLineDeclaration(t *testing.T) {
	res := Parse("const = ) (\nclass A {}\nfoo;", "")
	assert.NotEmpty(t, res.Diagnostics)
	require.Len(t, res.Program.Statements, 2)
	assert.IsType(t, &ClassDeclaration{}, res.Program.Statements[0])
	assert.IsType(t, &ExpressionStatement{}, res.Program.Statements[1])
}

func TestRecoveryBrokenInterfaceMember(t *testing.T) {
	res := Parse(`interface I {
    a: ;
    b: string;
}`, "")
	assert.Equal(t, []errors.Kind{errors.UnexpectedToken}, kindsOf(res.Diagnostics))
	iface := statementAt[*InterfaceDeclaration](t, res.Program, 0)
	require.Len(t, iface.Members, 1)
	assert.Equal(t, "b: string", iface.Members[0].String())
}

func TestDiagnosticsSortedByPosition(t *testing.T) {
	res := Parse("let a = ;\nlet b = \"x\\q\";\nlet = 2;", "")
	require.NotEmpty(t, res.Diagnostics)
	for i := 1; i < len(res.Diagnostics); i++ {
		assert.LessOrEqual(t, res.Diagnostics[i-1].StartPos, res.Diagnostics[i].StartPos)
	}
}

func TestSpeculationLeavesNoDiagnostics(t *testing.T) {
	// Each of these tries an arrow function, generic call or function type
	// first and backs off.
	inputs := []string{
		"(a);",
		"f((x), y);",
		"(a + b) * 2;",
		"a < b && c > d;",
		"let t: (string | number)[] = [];",
		"new Foo<Bar>();",
		"new Foo;",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			parseClean(t, input)
		})
	}
}
