package graph

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	foafName  = "http://xmlns.com/foaf/0.1/name"
	foafKnows = "http://xmlns.com/foaf/0.1/knows"
)

func TestMergeAppendsInOrder(t *testing.T) {
	a := Index{"http://a/#me": {foafName: {Literal("A1")}}}
	b := Index{"http://a/#me": {foafName: {Literal("A2"), Literal("A1")}}}

	merged, warnings := Merge(a, b)
	require.Empty(t, warnings)

	assert.Equal(t, []Term{Literal("A1"), Literal("A2"), Literal("A1")}, merged.Lookup("http://a/#me", foafName))
	assert.Len(t, a.Lookup("http://a/#me", foafName), 1, "inputs must not be mutated")
}

func TestMergeIsAssociative(t *testing.T) {
	a := Index{
		"http://a/#me": {foafName: {Literal("A")}},
	}
	b := Index{
		"http://a/#me": {foafKnows: {URI("http://b/#me")}},
		"http://b/#me": {foafName: {Literal("B")}},
	}
	c := Index{
		"http://a/#me": {foafName: {LangLiteral("Ah", "de")}},
		"http://b/#me": {foafName: {Literal("Bee")}},
	}

	ab, _ := Merge(a, b)
	left, _ := Merge(ab, c)

	bc, _ := Merge(b, c)
	right, _ := Merge(a, bc)

	assert.Equal(t, left, right)
	assert.Equal(t, []Term{Literal("A"), LangLiteral("Ah", "de")}, left.Lookup("http://a/#me", foafName))
}

func TestMergeDropsMalformedPredicates(t *testing.T) {
	incoming := Index{
		"http://a/#me": {
			foafName:   {Literal("A")},
			"foaf:nick": {Literal("a")},
			"not a uri": {Literal("x")},
		},
		"http://c/#me": {
			"broken": {Literal("c")},
		},
	}

	merged, warnings := Merge(Index{}, incoming)

	require.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.True(t, errors.Is(w, ErrMalformedPredicate))
	}
	assert.Equal(t, []Term{Literal("A")}, merged.Lookup("http://a/#me", foafName))
	assert.Len(t, merged["http://a/#me"], 1)
	assert.False(t, merged.HasSubject("http://c/#me"))
}

func TestLookupAbsent(t *testing.T) {
	idx := Index{}
	assert.Empty(t, idx.Lookup("http://nowhere/", foafName))
	assert.False(t, idx.HasSubject("http://nowhere/"))
}

func TestSliceFollowsBlankNodes(t *testing.T) {
	idx := Index{
		"http://a/#me": {
			foafName:                 {Literal("A")},
			"http://example.org/acc": {Blank("b1")},
		},
		"_:b1":         {"http://example.org/next": {Blank("b2")}},
		"_:b2":         {foafName: {Literal("deep")}},
		"_:b3":         {foafName: {Literal("unreachable")}},
		"http://b/#me": {foafName: {Literal("B")}},
	}

	slice := idx.Slice("http://a/#me")

	assert.ElementsMatch(t, []string{"http://a/#me", "_:b1", "_:b2"}, slice.Subjects())

	slice["http://a/#me"][foafName][0] = Literal("changed")
	assert.Equal(t, "A", idx.Lookup("http://a/#me", foafName)[0].Value)
}

func TestSliceMissingSubject(t *testing.T) {
	assert.Empty(t, Index{}.Slice("http://a/#me"))
}

func TestRekey(t *testing.T) {
	idx := Index{
		"http://a/#me":  {foafName: {Literal("A")}},
		"http://a2/#me": {foafName: {Literal("A2")}},
	}

	idx.Rekey("http://a/#me", "http://a2/#me")

	assert.False(t, idx.HasSubject("http://a/#me"))
	assert.Equal(t, []Term{Literal("A2"), Literal("A")}, idx.Lookup("http://a2/#me", foafName))
}

func TestTypes(t *testing.T) {
	idx := Index{
		"http://a/#me": {
			"http://www.w3.org/1999/02/22-rdf-syntax-ns#type": {
				URI("http://xmlns.com/foaf/0.1/Person"),
				Literal("ignored"),
			},
		},
	}

	assert.Equal(t, []string{"http://xmlns.com/foaf/0.1/Person"}, idx.Types("http://a/#me"))
}

func TestStoreConcurrentMerge(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Merge(Index{"http://a/#me": {foafName: {Literal("A")}}})
		}()
	}
	wg.Wait()

	assert.Len(t, store.Lookup("http://a/#me", foafName), 20)
	assert.Equal(t, 1, store.Len())
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewStore()
	store.Merge(Index{"http://a/#me": {foafName: {Literal("A")}}})

	values := store.Lookup("http://a/#me", foafName)
	values[0] = Literal("mutated")

	subject := store.Subject("http://a/#me")
	subject[foafName] = nil

	assert.Equal(t, "A", store.Lookup("http://a/#me", foafName)[0].Value)
	assert.Nil(t, store.Subject("http://missing/"))
}
