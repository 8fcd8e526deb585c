package runtime

import (
	"bytes"
	"strings"
	"testing"

	"bella-lang/internal/lexer"
	"bella-lang/internal/parser"
)

// runSource parses and executes source code, returning captured output and any error.
func runSource(source string) (string, error) {
	l := lexer.New(source, "test.bella")
	tokens, _ := l.Tokenize()
	p := parser.New(tokens)
	prog, _ := p.ParseProgram()

	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	err := interp.Run(prog)
	return buf.String(), err
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, err := runSource(source)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if strings.TrimRight(out, "\n") != strings.TrimRight(expected, "\n") {
		t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", expected, out)
	}
}

func expectError(t *testing.T, source, contains string) {
	t.Helper()
	_, err := runSource(source)
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", contains)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected error containing %q, got %q", contains, err.Error())
	}
}

// ---- declarations and assignment ----

func TestDeclareAssignPrint(t *testing.T) {
	expectOutput(t, `
let x = 100
x = -20
print 9 * x
`, "-180")
}

func TestAssignmentMutatesNearestBinding(t *testing.T) {
	expectOutput(t, `
let x = 1
x = x + 1
x = x * 10
print x
`, "20")
}

func TestRedeclarationFails(t *testing.T) {
	expectError(t, `
let x = 1
let x = 2
`, "RedeclarationError")
}

func TestAssignUndeclaredFails(t *testing.T) {
	expectError(t, `y = 3`, "UnboundVariableError")
}

func TestLookupUndeclaredFails(t *testing.T) {
	expectError(t, `print missing`, "UnboundVariableError")
}

// ---- arithmetic and comparison operators ----

func TestArithmetic(t *testing.T) {
	expectOutput(t, `print 1 + 2 * 3 - 4 / 8`, "6.5")
	expectOutput(t, `print 7 % 3`, "1")
	expectOutput(t, `print 2 ** 10`, "1024")
	expectOutput(t, `print -(3 + 4)`, "-7")
}

func TestPowerIsRightAssociative(t *testing.T) {
	expectOutput(t, `print 2 ** 3 ** 2`, "512")
}

func TestDivisionByZeroIsIEEE(t *testing.T) {
	expectOutput(t, `print 1 / 0`, "+Inf")
	expectOutput(t, `print -1 / 0`, "-Inf")
	expectOutput(t, `print 0 / 0`, "NaN")
}

func TestComparisons(t *testing.T) {
	expectOutput(t, `print 1 < 2`, "true")
	expectOutput(t, `print 2 <= 2`, "true")
	expectOutput(t, `print 1 == 2`, "false")
	expectOutput(t, `print 1 != 2`, "true")
	expectOutput(t, `print 1 >= 2`, "false")
	expectOutput(t, `print 3 > 2`, "true")
}

func TestArithmeticTypeErrors(t *testing.T) {
	expectError(t, `print 1 + true`, "TypeError")
	expectError(t, `print true < false`, "TypeError")
	expectError(t, `print -true`, "TypeError")
	expectError(t, `print !1`, "TypeError")
	expectError(t, `let a = [1]
print a + 1`, "TypeError")
}

// ---- logical operators ----

func TestLogicalOperators(t *testing.T) {
	expectOutput(t, `print true && false`, "false")
	expectOutput(t, `print true && true`, "true")
	expectOutput(t, `print false || true`, "true")
	expectOutput(t, `print false || false`, "false")
	expectOutput(t, `print !true`, "false")
}

func TestAndShortCircuits(t *testing.T) {
	// The right operand would fail with TypeError if evaluated.
	expectOutput(t, `print false && (1 < true)`, "false")
}

func TestOrShortCircuits(t *testing.T) {
	expectOutput(t, `print true || (1 < true)`, "true")
}

func TestLogicalRequiresBooleans(t *testing.T) {
	expectError(t, `print 1 && true`, "TypeError")
	expectError(t, `print true && 1`, "TypeError")
}

// ---- conditional expressions ----

func TestConditional(t *testing.T) {
	expectOutput(t, `print 3 < 2 ? 1 : 0`, "0")
	expectOutput(t, `print 2 < 3 ? 1 : 0`, "1")
}

func TestConditionalEvaluatesOneBranch(t *testing.T) {
	// The unselected branch references an unbound name; it must not run.
	expectOutput(t, `print true ? 1 : missing`, "1")
	expectOutput(t, `print false ? missing : 2`, "2")
}

func TestConditionalTestMustBeBoolean(t *testing.T) {
	expectError(t, `print 1 ? 2 : 3`, "TypeError")
}

// ---- while loops ----

func TestWhileLoop(t *testing.T) {
	expectOutput(t, `
let y = 0
while y < 10 {
  y = y + 1
}
print y
`, "10")
}

func TestWhileGuardMustBeBoolean(t *testing.T) {
	expectError(t, `while 1 { print 1 }`, "TypeError")
}

func TestWhileBodySharesScope(t *testing.T) {
	// A block does not introduce a scope, so a declaration inside a loop
	// body collides with itself on the second iteration.
	expectError(t, `
let i = 0
while i < 2 {
  let tmp = i
  i = i + 1
}
`, "RedeclarationError")
}

// ---- functions ----

func TestFunctionCall(t *testing.T) {
	expectOutput(t, `
function square(n) = n * n
print square(5)
`, "25")
}

func TestCallArityMismatch(t *testing.T) {
	expectError(t, `
function square(n) = n * n
print square(1, 2)
`, "ArityMismatchError")
}

func TestCallNonFunction(t *testing.T) {
	expectError(t, `
let x = 3
print x(1)
`, "NotCallableError")
}

func TestParameterShadowsOuterBinding(t *testing.T) {
	expectOutput(t, `
let n = 100
function double(n) = n * 2
print double(3)
print n
`, "6\n100")
}

func TestClosureCapturesDefiningFrame(t *testing.T) {
	// The closure sees later mutations of its captured frame.
	expectOutput(t, `
let a = 1
function addA(x) = x + a
a = 2
print addA(1)
`, "3")
}

func TestRecursion(t *testing.T) {
	expectOutput(t, `
function fact(n) = n < 2 ? 1 : n * fact(n - 1)
print fact(5)
`, "120")
}

func TestCallFrameIsDiscarded(t *testing.T) {
	expectError(t, `
function id(x) = x
print id(1)
print x
`, "UnboundVariableError")
}

func TestFunctionRedeclarationFails(t *testing.T) {
	expectError(t, `
function f(x) = x
function f(y) = y
`, "RedeclarationError")
}

// ---- arrays ----

func TestArrayLiteralAndSubscript(t *testing.T) {
	expectOutput(t, `
let a = [1, 2, 3]
print a[1]
`, "2")
}

func TestArrayPrinting(t *testing.T) {
	expectOutput(t, `print [1, true, [2, 3]]`, "[1, true, [2, 3]]")
	expectOutput(t, `print []`, "[]")
}

func TestSubscriptOutOfRange(t *testing.T) {
	expectError(t, `
let a = [1, 2, 3]
print a[5]
`, "IndexOutOfRangeError")
	expectError(t, `
let a = [1]
print a[-1]
`, "IndexOutOfRangeError")
}

func TestSubscriptTypeErrors(t *testing.T) {
	expectError(t, `
let x = 5
print x[0]
`, "TypeError")
	expectError(t, `
let a = [1, 2]
print a[true]
`, "TypeError")
	expectError(t, `
let a = [1, 2]
print a[0.5]
`, "TypeError")
}

func TestArraysAreReferences(t *testing.T) {
	// Passing an array to a function does not copy it; identity is shared.
	expectOutput(t, `
let a = [1, 2, 3]
let b = a
function first(arr) = arr[0]
print first(b)
`, "1")
}

// ---- builtins ----

func TestBuiltinSqrt(t *testing.T) {
	expectOutput(t, `print sqrt(2)`, "1.4142135623730951")
}

func TestBuiltinTrig(t *testing.T) {
	expectOutput(t, `print sin(0)`, "0")
	expectOutput(t, `print cos(0)`, "1")
}

func TestBuiltinLnIsAFunction(t *testing.T) {
	expectOutput(t, `print ln(1)`, "0")
	expectOutput(t, `print exp(0)`, "1")
}

func TestBuiltinHypot(t *testing.T) {
	expectOutput(t, `print hypot(3, 4)`, "5")
}

func TestPiConstant(t *testing.T) {
	expectOutput(t, `print π`, "3.141592653589793")
	expectOutput(t, `print cos(π)`, "-1")
}

func TestBuiltinArityMismatch(t *testing.T) {
	expectError(t, `print sqrt(1, 2)`, "ArityMismatchError")
	expectError(t, `print hypot(3)`, "ArityMismatchError")
}

func TestBuiltinRequiresNumbers(t *testing.T) {
	expectError(t, `print sqrt(true)`, "TypeError")
	expectError(t, `print sin([1])`, "TypeError")
}

// ---- output formatting ----

func TestNumberFormatting(t *testing.T) {
	expectOutput(t, `print 100`, "100")
	expectOutput(t, `print 0.5`, "0.5")
	expectOutput(t, `print 1000000`, "1e+06")
	expectOutput(t, `print 2.5 * 2`, "5")
}
