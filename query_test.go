package quickdb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sw3do/quickdb"
	"github.com/sw3do/quickdb/value"
)

func seedUsers(t *testing.T, db *quickdb.DB) {
	t.Helper()
	ctx := context.Background()
	users := []struct {
		key string
		age float64
	}{
		{"user:ada", 36},
		{"user:bob", 17},
		{"user:cat", 52},
		{"admin:dan", 41},
	}
	for _, u := range users {
		_, err := db.Set(ctx, u.key, value.Object(map[string]value.Value{
			"age": value.Number(u.age),
		}))
		require.NoError(t, err)
	}
}

func age(v value.Value) float64 {
	f, _ := v.Field("age")
	return f.Float64()
}

func TestFilter(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)

	adults, err := db.Filter(context.Background(), func(v value.Value, _ string) bool {
		return age(v) >= 18
	})
	require.NoError(t, err)
	require.Len(t, adults, 3)
	// Creation order preserved.
	assert.Equal(t, "user:ada", adults[0].Key)
	assert.Equal(t, "user:cat", adults[1].Key)
	assert.Equal(t, "admin:dan", adults[2].Key)
}

func TestFindReturnsFirstInCreationOrder(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)

	rec, err := db.Find(context.Background(), func(v value.Value, _ string) bool {
		return age(v) > 40
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "user:cat", rec.Key)
}

func TestFindNoMatch(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)

	rec, err := db.Find(context.Background(), func(v value.Value, _ string) bool {
		return age(v) > 100
	})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSomeEvery(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)
	ctx := context.Background()

	some, err := db.Some(ctx, func(v value.Value, _ string) bool { return age(v) < 18 })
	require.NoError(t, err)
	assert.True(t, some)

	every, err := db.Every(ctx, func(v value.Value, _ string) bool { return age(v) >= 18 })
	require.NoError(t, err)
	assert.False(t, every)

	every, err = db.Every(ctx, func(v value.Value, _ string) bool { return age(v) > 0 })
	require.NoError(t, err)
	assert.True(t, every)
}

func TestSomeEveryOnEmptyStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	some, err := db.Some(ctx, func(value.Value, string) bool { return true })
	require.NoError(t, err)
	assert.False(t, some, "some on an empty store is false")

	every, err := db.Every(ctx, func(value.Value, string) bool { return false })
	require.NoError(t, err)
	assert.True(t, every, "every on an empty store is vacuously true")
}

func TestQueryCountConsistency(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)
	ctx := context.Background()

	always := func(value.Value, string) bool { return true }

	filtered, err := db.Filter(ctx, always)
	require.NoError(t, err)

	mapped, err := db.MapValues(ctx, func(v value.Value, _ string) value.Value { return v })
	require.NoError(t, err)

	size, err := db.Size(ctx)
	require.NoError(t, err)

	assert.Equal(t, size, len(filtered))
	assert.Equal(t, size, len(mapped))
}

func TestMapGeneric(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)

	keys, err := quickdb.Map(context.Background(), db, func(_ value.Value, key string) string {
		return key
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user:ada", "user:bob", "user:cat", "admin:dan"}, keys)

	ages, err := quickdb.Map(context.Background(), db, func(v value.Value, _ string) float64 {
		return age(v)
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{36, 17, 52, 41}, ages)
}

func TestKeyMatchFilters(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db)
	ctx := context.Background()

	withPrefix, err := db.StartsWith(ctx, "user:")
	require.NoError(t, err)
	assert.Len(t, withPrefix, 3)

	withSuffix, err := db.EndsWith(ctx, "dan")
	require.NoError(t, err)
	require.Len(t, withSuffix, 1)
	assert.Equal(t, "admin:dan", withSuffix[0].Key)

	contains, err := db.Includes(ctx, ":b")
	require.NoError(t, err)
	require.Len(t, contains, 1)
	assert.Equal(t, "user:bob", contains[0].Key)

	// Case-sensitive, literal matching only.
	upper, err := db.StartsWith(ctx, "USER:")
	require.NoError(t, err)
	assert.Empty(t, upper)

	glob, err := db.Includes(ctx, "user:*")
	require.NoError(t, err)
	assert.Empty(t, glob, "no pattern semantics")
}
