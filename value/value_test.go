package value

import (
	"reflect"
	"testing"
)

func TestFromGo(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"string", "hi", String("hi")},
		{"float64", 1.5, Number(1.5)},
		{"int", 42, Number(42)},
		{"int64", int64(-7), Number(-7)},
		{"uint32", uint32(9), Number(9)},
		{"slice", []any{float64(1), "two"}, Array(Number(1), String("two"))},
		{"map", map[string]any{"a": true}, Object(map[string]Value{"a": Bool(true)})},
		{"value passthrough", Number(3), Number(3)},
		{"value slice", []Value{Null()}, Array(Null())},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromGo(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(got, tc.want) {
				t.Fatalf("FromGo(%v) = %v, want %v", tc.in, got.Interface(), tc.want.Interface())
			}
		})
	}
}

func TestFromGoUnsupported(t *testing.T) {
	if _, err := FromGo(struct{}{}); err == nil {
		t.Fatal("expected error for struct input")
	}
	if _, err := FromGo([]any{make(chan int)}); err == nil {
		t.Fatal("expected error for nested unsupported element")
	}
}

func TestInterfaceRoundTrip(t *testing.T) {
	in := map[string]any{
		"n":    float64(-2.25),
		"s":    "text",
		"b":    false,
		"null": nil,
		"arr":  []any{float64(1), []any{"nested"}},
	}
	v, err := FromGo(in)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v.Interface(), in) {
		t.Fatalf("Interface() = %#v, want %#v", v.Interface(), in)
	}
}

func TestAccessorsNeutralOnMismatch(t *testing.T) {
	n := Number(5)
	if n.Str() != "" || n.BoolVal() || n.Len() != 0 || n.Items() != nil || n.Fields() != nil || n.Keys() != nil {
		t.Fatal("expected neutral results from mismatched accessors")
	}
	if String("x").Float64() != 0 {
		t.Fatal("expected 0 from Float64 on a string")
	}
	if _, ok := n.Field("a"); ok {
		t.Fatal("expected Field miss on a number")
	}
}

func TestObjectKeysSorted(t *testing.T) {
	v := Object(map[string]Value{"b": Null(), "a": Null(), "c": Null()})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(v.Keys(), want) {
		t.Fatalf("Keys() = %v, want %v", v.Keys(), want)
	}
}

func TestImmutability(t *testing.T) {
	elems := []Value{Number(1)}
	arr := Array(elems...)
	elems[0] = Number(99)
	if arr.Items()[0].Float64() != 1 {
		t.Fatal("Array constructor must copy its input")
	}

	items := arr.Items()
	items[0] = Number(42)
	if arr.Items()[0].Float64() != 1 {
		t.Fatal("Items must return a copy")
	}

	fields := map[string]Value{"k": Bool(true)}
	obj := Object(fields)
	fields["k"] = Bool(false)
	if f, _ := obj.Field("k"); !f.BoolVal() {
		t.Fatal("Object constructor must copy its input")
	}
}
