package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housemembers/internal/models"
)

func member(name, source string) models.Member {
	return models.Member{Name: name, Source: source}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "janedoe", Key("Jane Doe"))
	assert.Equal(t, "jdoe", Key("J. Doe"))
	assert.Equal(t, "marytaylorgreene", Key(" Mary\tTaylor  Greene "))
	assert.Equal(t, "o'rourke", Key("O'Rourke"))
}

func TestDedupe_FirstWins(t *testing.T) {
	in := []models.Member{
		member("Jane Doe", "Congress.gov API"),
		member("John Roe", "Congress.gov API"),
		member("jane doe", "GovTrack.us API"),
		member("Jane  Doe.", "House.gov Leadership"),
	}

	got := Dedupe(in)
	require.Len(t, got, 2)
	assert.Equal(t, "Congress.gov API", got[0].Source)
	assert.Equal(t, "John Roe", got[1].Name)

	assert.Len(t, in, 4, "input must not be modified")
	assert.Equal(t, "GovTrack.us API", in[2].Source)
}

func TestDedupe_DropsShortKeys(t *testing.T) {
	got := Dedupe([]models.Member{
		member("A B", "x"),
		member("J. D.", "x"),
		member("Al Bo", "x"),
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Al Bo", got[0].Name)
}

func TestDedupe_Invariants(t *testing.T) {
	in := []models.Member{
		member("Nancy Pelosi", "a"),
		member("NANCY PELOSI", "b"),
		member("Mike Johnson", "a"),
		member("Hakeem Jeffries", "c"),
		member("Mike  Johnson", "c"),
		member("", "c"),
	}

	got := Dedupe(in)
	assert.LessOrEqual(t, len(got), len(in))

	seen := map[string]bool{}
	for _, m := range got {
		k := Key(m.Name)
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}

	assert.Len(t, got, 3)
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}

func TestNearDuplicates(t *testing.T) {
	members := []models.Member{
		member("Jon Smith", "a"),
		member("John Smith", "b"),
		member("Alexandria Ocasio-Cortez", "c"),
	}

	pairs := NearDuplicates(members, 0.9)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Jon Smith", pairs[0].Left.Name)
	assert.Equal(t, "John Smith", pairs[0].Right.Name)
	assert.GreaterOrEqual(t, pairs[0].Similarity, 0.9)

	assert.Empty(t, NearDuplicates(members, 1.0))
}
