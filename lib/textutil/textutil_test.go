package textutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	require.Equal(t, 1.0, Similarity("smith", "Smith, J"))
	require.Equal(t, 1.0, Similarity("Smith,  J", "smith, j"))
	require.Greater(t, Similarity("smtih", "Smith, J"), 0.8)
	require.Equal(t, 0.0, Similarity("", "Smith, J"))
	require.Less(t, Similarity("doe", "Smith, J"), 0.5)
}

func TestFuzzyMatches(t *testing.T) {
	candidates := []string{"Doe, R", "Smith, J", "Smithers, W"}

	matches := FuzzyMatches("smith", candidates, 0.9)
	diff := cmp.Diff([]Match{
		{Value: "Smith, J", Score: 1},
		{Value: "Smithers, W", Score: 1},
	}, matches)
	if diff != "" {
		t.Fatal(diff)
	}

	require.Empty(t, FuzzyMatches("zzz", candidates, 0.9))
}
