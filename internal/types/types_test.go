package types

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsInt(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false}, {"0", true}, {"9", true}, {"1.0", false}, {"a", false}, {"42", true},
	}
	for _, tt := range tests {
		for _, sign := range []string{"", "+", "-"} {
			in := sign + tt.in
			if tt.in == "" && sign != "" {
				continue // "+" и "-" без цифр
			}
			if got := IsInt(in); got != tt.want {
				t.Errorf("IsInt(%q) = %v, want %v", in, got, tt.want)
			}
		}
		if IsInt("++" + tt.in) {
			t.Errorf("IsInt(%q) must be false", "++"+tt.in)
		}
	}
	if IsInt("+") || IsInt("-") || IsInt("+-42") {
		t.Error("bare signs are not integers")
	}
}

func TestIsFloat(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false}, {".", false}, {"0", false}, {"a", false}, {"ab", false}, {"aeb", false},
		{"1e++1", false}, {"1e--1", false}, {"1e+-1", false}, {"1e1.1", false},
		{"1.0", true}, {"1.", true}, {".1", true}, {"1e1", true}, {"1e+1", true},
		{"1e-1", true}, {"1.1e1", true}, {"1.1E-10", true},
	}
	for _, tt := range tests {
		if got := IsFloat(tt.in); got != tt.want {
			t.Errorf("IsFloat(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.want {
			continue
		}
		for _, sign := range []string{"+", "-"} {
			if !IsFloat(sign + tt.in) {
				t.Errorf("IsFloat(%q) = false, want true", sign+tt.in)
			}
		}
	}
}

func TestIsBool(t *testing.T) {
	for _, in := range []string{"true", "True", "TRUE", "false", "False", "fAlSe"} {
		if !IsBool(in) {
			t.Errorf("IsBool(%q) = false", in)
		}
	}
	for _, in := range []string{"", "yes", "1", "truee"} {
		if IsBool(in) {
			t.Errorf("IsBool(%q) = true", in)
		}
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"42", Int},
		{"+42", Int},
		{"-42", Int},
		{"+-42", String},
		{"3.14", Float},
		{"3.14e-10", Float},
		{"True", Bool},
		{"false", Bool},
		{"hello", String},
		{"[42]", ListOf(Int)},
		{"[[1]]", ListOf(ListOf(Int))},
		{"[1, 2, 3]", ListOf(String)},
		{"[1, 2.5]", ListOf(String)},
		{"[1, a]", ListOf(String)},
		{"[-7]", ListOf(Int)},
		{"[2.5]", ListOf(Float)},
		{"[False]", ListOf(Bool)},
		{"[[[0]]]", ListOf(ListOf(ListOf(Int)))},
		{"[[1], [2, 3]]", ListOf(ListOf(String))},
		{"[\"a,b\", \"c\"]", ListOf(String)},
		{"[true, False]", ListOf(String)},
		{"[]", ListOf(String)},
		{"[1,]", ListOf(String)},
		{"[", String},
		{"", String},
	}
	for _, tt := range tests {
		if got := Infer(tt.in); got != tt.want {
			t.Errorf("Infer(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{Int, "int"},
		{Float, "float"},
		{String, "str"},
		{Bool, "bool"},
		{ListOf(Int), "list[int]"},
		{ListOf(ListOf(Float)), "list[list[float]]"},
		{Class("MyClass"), "MyClass"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.k, got, tt.want)
		}
	}
	if ListOf(ListOf(Int)).Elem() != ListOf(Int) || ListOf(Int).Scalar() != Int || Int.Elem() != Int {
		t.Error("Elem/Scalar mismatch")
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42", "42"},
		{"1.", "1."},
		{"true", "True"},
		{"FALSE", "False"},
		{"hello", `"hello"`},
		{`"quoted"`, `"quoted"`},
		{`'single'`, `"single"`},
		{`say "hi"`, `"say \"hi\""`},
		{"[1,2]", "[1,2]"},
		{"[1, 2]", "[1, 2]"},
		{"[a, b]", "[a, b]"},
		{"[[1],[2]]", "[[1],[2]]"},
		{"[True]", "[True]"},
		{"[]", "[]"},
	}
	for _, tt := range tests {
		if got := Display(tt.in, Infer(tt.in)); got != tt.want {
			t.Errorf("Display(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", int64(42)},
		{"+7", int64(7)},
		{"99999999999999999999", float64(1e20)},
		{"2.5", 2.5},
		{".5", 0.5},
		{"True", true},
		{"x", "x"},
		{`"y"`, "y"},
		{"[1, 2]", []any{"1", "2"}},
		{"[42]", []any{int64(42)}},
		{"[[true]]", []any{[]any{true}}},
		{"[[1], [2]]", []any{[]any{"1"}, []any{"2"}}},
		{"[]", []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Value(tt.in, Infer(tt.in))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Value(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func ExampleInfer() {
	for _, lit := range []string{"42", "3.14", "True", "[[1]]", "hello"} {
		fmt.Println(lit, Infer(lit))
	}
	// Output:
	// 42 int
	// 3.14 float
	// True bool
	// [[1]] list[list[int]]
	// hello str
}
