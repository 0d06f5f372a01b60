package genealogy_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/genealogy/genealogytest"
)

func ids(inds []*genealogy.Individual) []string {
	out := make([]string, len(inds))
	for i, ind := range inds {
		out[i] = ind.ID
	}
	return out
}

func TestNewRejectsBadIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		data genealogy.Data
		want error
	}{
		{
			name: "empty individual id",
			data: genealogy.Data{Individuals: []genealogy.Individual{{ID: ""}}},
			want: genealogy.ErrInvalidID,
		},
		{
			name: "duplicate individual",
			data: genealogy.Data{Individuals: []genealogy.Individual{{ID: "a"}, {ID: "a"}}},
			want: genealogy.ErrDuplicateID,
		},
		{
			name: "duplicate family",
			data: genealogy.Data{
				Individuals: []genealogy.Individual{{ID: "a"}},
				Families:    []genealogy.Family{{ID: "F"}, {ID: "F"}},
			},
			want: genealogy.ErrDuplicateID,
		},
		{
			name: "duplicate edge",
			data: genealogy.Data{
				Individuals: []genealogy.Individual{{ID: "a"}, {ID: "b"}},
				Edges: []genealogy.Edge{
					{ID: "e", SourceID: "a", TargetID: "b"},
					{ID: "e", SourceID: "b", TargetID: "a"},
				},
			},
			want: genealogy.ErrDuplicateID,
		},
		{
			name: "edge id with whitespace",
			data: genealogy.Data{
				Individuals: []genealogy.Individual{{ID: "a"}},
				Edges:       []genealogy.Edge{{ID: " e", SourceID: "a", TargetID: "a"}},
			},
			want: genealogy.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := genealogy.New(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestDanglingEdges(t *testing.T) {
	g := genealogytest.Dangling()

	assert.Len(t, g.Edges(), 2)
	assert.Equal(t, []string{"a->b"}, edgeIDs(g.ResolvedEdges()))
	assert.Equal(t, []string{"ghost->b"}, edgeIDs(g.DanglingEdges()))
}

func edgeIDs(edges []genealogy.Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.ID
	}
	return out
}

func TestParentsFamilyFallback(t *testing.T) {
	g := genealogy.MustNew(genealogy.Data{
		Individuals: []genealogy.Individual{
			{ID: "kid"},
			{ID: "dad", Sex: genealogy.SexMale},
			{ID: "mom", Sex: genealogy.SexFemale},
			{ID: "listed", Parents: []string{"mom", "missing"}},
		},
		Families: []genealogy.Family{
			{ID: "F1", Husband: "dad", Wife: "mom", Children: []string{"kid"}},
		},
	})

	tests := []struct {
		id   string
		want []string
	}{
		{"kid", []string{"dad", "mom"}},
		{"listed", []string{"mom"}},
		{"dad", []string{}},
		{"nobody", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(g.Parents(tt.id)))
		})
	}
}

func TestChildrenOrdering(t *testing.T) {
	g := genealogy.MustNew(genealogy.Data{
		Individuals: []genealogy.Individual{
			{ID: "p"},
			{ID: "c-late", Birth: &genealogy.Event{Year: genealogytest.Int(1990)}},
			{ID: "c-early", Birth: &genealogy.Event{Year: genealogytest.Int(1980)}},
			{ID: "c-first", Metadata: genealogy.Metadata{BirthOrder: genealogytest.Int(0)}},
			{ID: "c-unknown"},
		},
		Families: []genealogy.Family{
			{ID: "F", Husband: "p", Children: []string{"c-unknown", "c-late", "c-early", "c-first"}},
		},
	})

	assert.Equal(t, []string{"c-first", "c-early", "c-late", "c-unknown"}, ids(g.Children("p")))
}

func TestSpouses(t *testing.T) {
	g := genealogytest.NuclearFamily()

	assert.Equal(t, []string{"mother"}, ids(g.Spouses("father")))
	assert.Equal(t, []string{"father"}, ids(g.Spouses("mother")))
	assert.Empty(t, g.Spouses("ego"))
}

func TestFatherMother(t *testing.T) {
	tests := []struct {
		name       string
		data       genealogy.Data
		wantFather string
		wantMother string
	}{
		{
			name: "family wins over sex",
			data: genealogy.Data{
				Individuals: []genealogy.Individual{
					{ID: "kid", Parents: []string{"b", "a"}},
					{ID: "a", Sex: genealogy.SexFemale},
					{ID: "b", Sex: genealogy.SexMale},
				},
				Families: []genealogy.Family{{ID: "F", Husband: "a", Wife: "b", Children: []string{"kid"}}},
			},
			wantFather: "a",
			wantMother: "b",
		},
		{
			name: "by sex",
			data: genealogy.Data{
				Individuals: []genealogy.Individual{
					{ID: "kid", Parents: []string{"m", "f"}},
					{ID: "m", Sex: genealogy.SexFemale},
					{ID: "f", Sex: genealogy.SexMale},
				},
			},
			wantFather: "f",
			wantMother: "m",
		},
		{
			name: "unknown sex fills in order",
			data: genealogy.Data{
				Individuals: []genealogy.Individual{
					{ID: "kid", Parents: []string{"x", "y"}},
					{ID: "x"},
					{ID: "y"},
				},
			},
			wantFather: "x",
			wantMother: "y",
		},
		{
			name: "single mother",
			data: genealogy.Data{
				Individuals: []genealogy.Individual{
					{ID: "kid", Parents: []string{"m"}},
					{ID: "m", Sex: genealogy.SexFemale},
				},
			},
			wantMother: "m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := genealogy.MustNew(tt.data)
			father, mother := g.FatherMother("kid")
			assert.Equal(t, tt.wantFather, idOf(father))
			assert.Equal(t, tt.wantMother, idOf(mother))
		})
	}
}

func idOf(ind *genealogy.Individual) string {
	if ind == nil {
		return ""
	}
	return ind.ID
}

func TestReadInvalidJSON(t *testing.T) {
	_, err := genealogy.Read(strings.NewReader("{not json"))
	require.Error(t, err)
	assert.True(t, lerrors.Is(err, lerrors.ErrCodeInvalidInput))
}

func TestReadFileMissing(t *testing.T) {
	_, err := genealogy.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, lerrors.Is(err, lerrors.ErrCodeNotFound))
}

func TestWriteReadRoundTrip(t *testing.T) {
	g := genealogytest.NuclearFamily()
	path := filepath.Join(t.TempDir(), "family.json")

	require.NoError(t, genealogy.WriteFile(g, path))
	got, err := genealogy.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, g.Export(), got.Export())
}

func TestAnonymize(t *testing.T) {
	g := genealogy.MustNew(genealogy.Data{
		Individuals: []genealogy.Individual{
			{ID: "a", Name: "Ada", Birth: &genealogy.Event{Year: genealogytest.Int(1815), Date: "10 Dec 1815", Place: "London"}},
			{ID: "b", Name: "Byron", Children: []string{"a"}},
		},
	})

	anon := g.Anonymize()
	a, ok := anon.Individual("a")
	require.True(t, ok)
	assert.Equal(t, "Person 1", a.Name)
	assert.Equal(t, &genealogy.Event{Year: genealogytest.Int(1815)}, a.Birth)
	assert.Nil(t, a.Death)

	orig, _ := g.Individual("a")
	assert.Equal(t, "Ada", orig.Name)
	assert.Equal(t, "London", orig.Birth.Place)
	assert.Len(t, anon.Children("b"), 1)
}
