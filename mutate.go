package quickdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sw3do/quickdb/value"
)

// MathOp names an arithmetic operation for Math.
type MathOp string

const (
	OpAdd      MathOp = "add"
	OpSubtract MathOp = "subtract"
	OpMultiply MathOp = "multiply"
	OpDivide   MathOp = "divide"
)

// Math reads the number under key, applies op with operand and writes the
// result back, all under the key's mutation lock. An absent or non-numeric
// current value counts as 0. Dividing by a zero operand leaves the stored
// value untouched and returns it, rather than failing; this mirrors the
// historical behavior callers depend on. An unknown op fails with
// ErrInvalidOperation.
func (db *DB) Math(ctx context.Context, key string, op MathOp, operand float64) (float64, error) {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}

	eng, err := db.ensure(ctx)
	if err != nil {
		return 0, err
	}

	release := db.locks.acquire(key)
	defer release()

	rec, err := eng.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	var current float64
	if rec != nil && rec.Value.Kind() == value.KindNumber {
		current = rec.Value.Float64()
	}

	var result float64
	switch op {
	case OpAdd:
		result = current + operand
	case OpSubtract:
		result = current - operand
	case OpMultiply:
		result = current * operand
	case OpDivide:
		if operand == 0 {
			return current, nil
		}
		result = current / operand
	}

	if _, err := eng.Put(ctx, key, value.Number(result)); err != nil {
		return 0, err
	}
	db.log.Debug("math", slog.String("key", key), slog.String("op", string(op)))
	return result, nil
}

// Add atomically adds n to the number under key and returns the new value.
// Absent or non-numeric values start from 0.
func (db *DB) Add(ctx context.Context, key string, n float64) (float64, error) {
	return db.Math(ctx, key, OpAdd, n)
}

// Subtract atomically subtracts n from the number under key and returns the
// new value. Absent or non-numeric values start from 0.
func (db *DB) Subtract(ctx context.Context, key string, n float64) (float64, error) {
	return db.Math(ctx, key, OpSubtract, n)
}

// Push appends vals, in call order, to the array under key and returns the
// new array. An absent or non-array value starts from the empty array.
func (db *DB) Push(ctx context.Context, key string, vals ...value.Value) ([]value.Value, error) {
	eng, err := db.ensure(ctx)
	if err != nil {
		return nil, err
	}

	release := db.locks.acquire(key)
	defer release()

	rec, err := eng.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var elems []value.Value
	if rec != nil && rec.Value.Kind() == value.KindArray {
		elems = rec.Value.Items()
	}
	elems = append(elems, vals...)

	if _, err := eng.Put(ctx, key, value.Array(elems...)); err != nil {
		return nil, err
	}
	db.log.Debug("push", slog.String("key", key), slog.Int("added", len(vals)))
	return elems, nil
}

// Pull removes every element structurally equal to target from the array
// under key and returns the new array. If the key is absent or does not
// hold an array, Pull returns an empty array without writing anything.
func (db *DB) Pull(ctx context.Context, key string, target value.Value) ([]value.Value, error) {
	eng, err := db.ensure(ctx)
	if err != nil {
		return nil, err
	}

	release := db.locks.acquire(key)
	defer release()

	rec, err := eng.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Value.Kind() != value.KindArray {
		return []value.Value{}, nil
	}

	kept := make([]value.Value, 0, rec.Value.Len())
	for _, e := range rec.Value.Items() {
		if !value.Equal(e, target) {
			kept = append(kept, e)
		}
	}

	if _, err := eng.Put(ctx, key, value.Array(kept...)); err != nil {
		return nil, err
	}
	db.log.Debug("pull", slog.String("key", key), slog.Int("kept", len(kept)))
	return kept, nil
}

// ArrayLength returns the length of the array under key, or 0 if the key is
// absent or does not hold an array.
func (db *DB) ArrayLength(ctx context.Context, key string) (int, error) {
	v, ok, err := db.Get(ctx, key)
	if err != nil || !ok || v.Kind() != value.KindArray {
		return 0, err
	}
	return v.Len(), nil
}

// ArrayIncludes reports whether the array under key contains an element
// structurally equal to target. False if the key is absent or not an array.
func (db *DB) ArrayIncludes(ctx context.Context, key string, target value.Value) (bool, error) {
	i, err := db.ArrayIndexOf(ctx, key, target)
	return i >= 0, err
}

// ArrayIndexOf returns the index of the first element structurally equal to
// target in the array under key, or -1 if there is none, the key is absent,
// or the value is not an array.
func (db *DB) ArrayIndexOf(ctx context.Context, key string, target value.Value) (int, error) {
	v, ok, err := db.Get(ctx, key)
	if err != nil || !ok || v.Kind() != value.KindArray {
		return -1, err
	}
	for i, e := range v.Items() {
		if value.Equal(e, target) {
			return i, nil
		}
	}
	return -1, nil
}

// ObjectKeys returns the sorted field names of the object under key, or an
// empty slice if the key is absent or does not hold an object.
func (db *DB) ObjectKeys(ctx context.Context, key string) ([]string, error) {
	v, ok, err := db.Get(ctx, key)
	if err != nil || !ok || v.Kind() != value.KindObject {
		return []string{}, err
	}
	return v.Keys(), nil
}

// ObjectValues returns the field values of the object under key in sorted
// field-name order, or an empty slice on absence/type mismatch.
func (db *DB) ObjectValues(ctx context.Context, key string) ([]value.Value, error) {
	v, ok, err := db.Get(ctx, key)
	if err != nil || !ok || v.Kind() != value.KindObject {
		return []value.Value{}, err
	}
	fields := v.Fields()
	out := make([]value.Value, 0, len(fields))
	for _, name := range v.Keys() {
		out = append(out, fields[name])
	}
	return out, nil
}

// ObjectHasKey reports whether the object under key has a field named
// field. False on absence or type mismatch.
func (db *DB) ObjectHasKey(ctx context.Context, key, field string) (bool, error) {
	v, ok, err := db.Get(ctx, key)
	if err != nil || !ok || v.Kind() != value.KindObject {
		return false, err
	}
	_, has := v.Field(field)
	return has, nil
}
