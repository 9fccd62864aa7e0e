package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencycheck/internal/modules/progress/domain"
)

func TestBinaryPolicyBoundaries(t *testing.T) {
	t.Parallel()
	p := domain.BinaryPolicy()
	assert.Equal(t, domain.StatePending, p.State(0))
	assert.Equal(t, 0.0, p.Credit(0))
	assert.Equal(t, domain.StateInProgress, p.State(1))
	assert.Equal(t, 0.5, p.Credit(1))
	assert.Equal(t, domain.StateDone, p.State(2))
	assert.Equal(t, 1.0, p.Credit(2))
	assert.Equal(t, 1.0, p.Credit(7))
}

func TestGraduatedPolicyBoundaries(t *testing.T) {
	t.Parallel()
	p := domain.GraduatedPolicy()
	assert.Equal(t, 0.0, p.Credit(0))
	assert.Equal(t, 0.33, p.Credit(1))
	assert.Equal(t, 0.66, p.Credit(2))
	assert.Equal(t, domain.StateInProgress, p.State(2))
	assert.Equal(t, 1.0, p.Credit(3))
	assert.Equal(t, domain.StateDone, p.State(3))
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()
	p, err := domain.ParsePolicy("graduated:4")
	require.NoError(t, err)
	assert.Equal(t, domain.Policy{Kind: domain.PolicyGraduated, Threshold: 4}, p)
	assert.Equal(t, "graduated-4", p.Version())
	assert.Equal(t, 0.75, p.Credit(3))

	p, err = domain.ParsePolicy("binary")
	require.NoError(t, err)
	assert.Equal(t, domain.BinaryPolicy(), p)

	for _, raw := range []string{"", "linear:2", "binary:x", "binary:0"} {
		_, err := domain.ParsePolicy(raw)
		assert.Error(t, err, raw)
	}
}

func TestScoreGroupOrderingAndEmptyGroup(t *testing.T) {
	t.Parallel()
	empty := domain.ScoreGroup(nil, domain.BinaryPolicy())
	assert.Equal(t, 0, empty.Pct)
	assert.Empty(t, empty.Done)

	g := domain.ScoreGroup([]domain.GroupItem{
		{ID: "a", Count: 2},
		{ID: "b", Count: 0},
		{ID: "c", Count: 5},
		{ID: "d", Count: 1},
		{ID: "e", Count: 2},
		{ID: "f", Count: 0},
	}, domain.BinaryPolicy())
	ids := func(items []domain.ScoredItem) []string {
		out := []string{}
		for _, item := range items {
			out = append(out, item.ID)
		}
		return out
	}
	assert.Equal(t, []string{"c", "a", "e"}, ids(g.Done))
	assert.Equal(t, []string{"d"}, ids(g.InProgress))
	assert.Equal(t, []string{"b", "f"}, ids(g.Pending))
	// (1 + 0 + 1 + 0.5 + 1 + 0) / 6
	assert.Equal(t, 58, g.Pct)
}
