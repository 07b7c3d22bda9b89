package value

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nulls", Null(), Null(), true},
		{"bools", Bool(true), Bool(true), true},
		{"bool mismatch", Bool(true), Bool(false), false},
		{"numbers exact", Number(1.5), Number(1.5), true},
		{"numbers near", Number(1.5), Number(1.5000001), false},
		{"strings", String("a"), String("a"), true},
		{"kind mismatch", Number(1), String("1"), false},
		{"null vs false", Null(), Bool(false), false},
		{"zero vs null", Number(0), Null(), false},
		{"arrays", Array(Number(1), Number(2)), Array(Number(1), Number(2)), true},
		{"array order matters", Array(Number(1), Number(2)), Array(Number(2), Number(1)), false},
		{"array length", Array(Number(1)), Array(Number(1), Number(1)), false},
		{
			"objects order independent",
			Object(map[string]Value{"a": Number(1), "b": Number(2)}),
			Object(map[string]Value{"b": Number(2), "a": Number(1)}),
			true,
		},
		{
			"object key set",
			Object(map[string]Value{"a": Number(1)}),
			Object(map[string]Value{"b": Number(1)}),
			false,
		},
		{
			"object member value",
			Object(map[string]Value{"a": Number(1)}),
			Object(map[string]Value{"a": Number(2)}),
			false,
		},
		{
			"deep nesting",
			Object(map[string]Value{"l": Array(Object(map[string]Value{"x": Null()}))}),
			Object(map[string]Value{"l": Array(Object(map[string]Value{"x": Null()}))}),
			true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tc.a.Interface(), tc.b.Interface(), got, tc.want)
			}
			if got := Equal(tc.b, tc.a); got != tc.want {
				t.Fatalf("Equal is not symmetric for %v, %v", tc.a.Interface(), tc.b.Interface())
			}
		})
	}
}
