package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Name     NullableString         `json:"name,omitzero"`
	Score    NullableValue[float64] `json:"score,omitzero"`
	Slots    NullableMap[string]    `json:"slots,omitzero"`
	Contexts NullableList[string]   `json:"contexts,omitzero"`
}

func TestNullableString(t *testing.T) {
	var absent NullableString
	empty := NullableStringFrom("")

	assert.True(t, absent.IsNil())
	assert.False(t, empty.IsNil())
	assert.False(t, absent.Equals(empty))
	assert.NotEqual(t, absent.Hash(), empty.Hash())
	assert.True(t, NullString().Equals(absent))

	empty.Clear()
	assert.True(t, empty.IsNil())

	var ns NullableString
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &ns))
	assert.Equal(t, NullableStringFrom("abc"), ns)
	require.NoError(t, json.Unmarshal([]byte(`null`), &ns))
	assert.True(t, ns.IsNil())
}

func TestNullableValue(t *testing.T) {
	a := NullableValueFrom(0.0)
	b := NullableValueFrom(math.Copysign(0, -1))
	assert.True(t, a.Equals(b))
	assert.Equal(t, a.Hash(), b.Hash())

	v, ok := NullValue[int]().Get()
	assert.False(t, ok)
	assert.Zero(t, v)

	var score NullableValue[float64]
	require.NoError(t, json.Unmarshal([]byte(`0.75`), &score))
	assert.Equal(t, "0.75", score.String())
}

func TestNullableMapAdd(t *testing.T) {
	var m NullableMap[string]
	require.NoError(t, m.Add("k", "v1"))
	err := m.Add("k", "v2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "v1", m.Value["k"])

	// wholesale replacement never rejects keys that already exist
	m.Set(map[string]string{"k": "v3"})
	assert.Equal(t, "v3", m.Value["k"])
}

func TestNullableMapSetCopies(t *testing.T) {
	src := map[string]string{"a": "1"}
	m := NullableMapFrom(src)
	src["a"] = "2"
	assert.Equal(t, "1", m.Value["a"])

	clone := m.Clone()
	clone.Value["a"] = "3"
	assert.Equal(t, "1", m.Value["a"])
}

func TestNullableMapHashOrderIndependent(t *testing.T) {
	a := NullableMap[string]{Valid: true, Value: map[string]string{}}
	b := NullableMap[string]{Valid: true, Value: map[string]string{}}
	for _, k := range []string{"x", "y", "z"} {
		require.NoError(t, a.Add(k, k+"v"))
	}
	for _, k := range []string{"z", "x", "y"} {
		require.NoError(t, b.Add(k, k+"v"))
	}
	assert.True(t, a.Equals(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, []string{"x", "y", "z"}, a.Keys())
}

func TestTriState(t *testing.T) {
	tests := []struct {
		name string
		in   envelope
		json string
	}{
		{
			name: "absent",
			in:   envelope{},
			json: `{}`,
		},
		{
			name: "present and empty",
			in: envelope{
				Slots:    EmptyMap[string](),
				Contexts: EmptyList[string](),
			},
			json: `{"slots":{},"contexts":[]}`,
		},
		{
			name: "present and populated",
			in: envelope{
				Name:     NullableStringFrom(""),
				Score:    NullableValueFrom(0.5),
				Slots:    NullableMapFrom(map[string]string{"a": "b"}),
				Contexts: NullableListFrom("ctx"),
			},
			json: `{"name":"","score":0.5,"slots":{"a":"b"},"contexts":["ctx"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var out envelope
			require.NoError(t, json.Unmarshal(data, &out))
			assert.True(t, tt.in.Slots.Equals(out.Slots))
			assert.Equal(t, tt.in.Contexts.IsNil(), out.Contexts.IsNil())
			assert.Equal(t, tt.in.Contexts.IsEmpty(), out.Contexts.IsEmpty())
			assert.True(t, tt.in.Name.Equals(out.Name))
			assert.True(t, tt.in.Score.Equals(out.Score))
		})
	}
}

func TestNullableListEquality(t *testing.T) {
	eq := func(a, b *string) bool { return *a == *b }
	hash := func(s *string) uint64 { return HashString(*s) }

	absent := NullList[string]()
	empty := EmptyList[string]()
	one := NullableListFrom("a")

	assert.False(t, absent.EqualFunc(empty, eq))
	assert.False(t, empty.EqualFunc(one, eq))
	assert.True(t, one.EqualFunc(NullableListFrom("a"), eq))
	assert.False(t, NullableListFrom("a", "b").EqualFunc(NullableListFrom("b", "a"), eq))

	assert.Zero(t, absent.HashFunc(hash))
	assert.NotEqual(t, absent.HashFunc(hash), empty.HashFunc(hash))
	assert.NotEqual(t, NullableListFrom("a", "b").HashFunc(hash), NullableListFrom("b", "a").HashFunc(hash))

	var appended NullableList[string]
	appended.Append("a")
	assert.True(t, appended.EqualFunc(one, eq))
}
