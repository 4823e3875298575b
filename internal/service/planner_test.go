package service

import (
	"context"
	"testing"

	"lucha-gm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlannedMatchAppendsToRunningOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	c := e.mustWrestler(t, save.ID, "C")
	d := e.mustWrestler(t, save.ID, "D")

	first := e.mustSingle(t, save.ID, a.ID, b.ID)
	second := e.mustSingle(t, save.ID, c.ID, d.ID)

	assert.Equal(t, 1, first.SortOrder)
	assert.Equal(t, 2, second.SortOrder)

	card, err := e.planner.ListPlannedMatches(ctx, save.ID)
	require.NoError(t, err)
	require.Len(t, card, 2)
	assert.Equal(t, first.ID, card[0].ID)
	assert.Equal(t, second.ID, card[1].ID)
}

func TestAddPlannedMatchValidatesTeams(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")

	_, err := e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchTag,
		Participants: map[int][]int64{0: {a.ID}, 1: {b.ID}},
	})
	assert.ErrorIs(t, err, domain.ErrIncompleteTeams)

	_, err = e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchSingle,
		Participants: map[int][]int64{0: {a.ID}, 1: {b.ID}},
		Cost:         -5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchSingle,
		Participants: map[int][]int64{0: {a.ID}, 1: {9999}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTitleMatchRequiresTitle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")

	_, err := e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchSingle,
		Participants: map[int][]int64{0: {a.ID}, 1: {b.ID}},
		IsTitleMatch: true,
	})
	assert.ErrorIs(t, err, domain.ErrTitleRequired)

	ghost := int64(4242)
	_, err = e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchSingle,
		Participants: map[int][]int64{0: {a.ID}, 1: {b.ID}},
		IsTitleMatch: true,
		TitleID:      &ghost,
	})
	assert.ErrorIs(t, err, domain.ErrTitleMismatch)
}

func TestTitleMatchCategoryMustMatchFormat(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	c := e.mustWrestler(t, save.ID, "C")
	d := e.mustWrestler(t, save.ID, "D")
	world := e.mustTitle(t, save.ID, "World", domain.CategoryWorld)
	tag := e.mustTitle(t, save.ID, "Tag", domain.CategoryTag)

	// A singles belt cannot go on a team format.
	_, err := e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchTag,
		Participants: map[int][]int64{0: {a.ID, b.ID}, 1: {c.ID, d.ID}},
		IsTitleMatch: true,
		TitleID:      &world.ID,
	})
	assert.ErrorIs(t, err, domain.ErrTitleMismatch)

	// A tag belt cannot go on a singles format.
	_, err = e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchSingle,
		Participants: map[int][]int64{0: {a.ID}, 1: {b.ID}},
		IsTitleMatch: true,
		TitleID:      &tag.ID,
	})
	assert.ErrorIs(t, err, domain.ErrTitleMismatch)

	_, err = e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchTag,
		Participants: map[int][]int64{0: {a.ID, b.ID}, 1: {c.ID, d.ID}},
		IsTitleMatch: true,
		TitleID:      &tag.ID,
	})
	assert.NoError(t, err)
}

func TestUpdatePlannedMatchRejectsCompleted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	match := e.mustSingle(t, save.ID, a.ID, b.ID)

	_, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, a.ID, 3)
	require.NoError(t, err)

	_, err = e.planner.UpdatePlannedMatch(ctx, save.ID, match.ID, PlannedMatchInput{
		Type:         domain.MatchSingle,
		Participants: map[int][]int64{0: {a.ID}, 1: {b.ID}},
	})
	assert.ErrorIs(t, err, domain.ErrNotEditable)
}

func TestUpdatePlannedMatchReplacesParticipants(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	c := e.mustWrestler(t, save.ID, "C")
	match := e.mustSingle(t, save.ID, a.ID, b.ID)

	updated, err := e.planner.UpdatePlannedMatch(ctx, save.ID, match.ID, PlannedMatchInput{
		Type:         domain.MatchSingle,
		Participants: map[int][]int64{0: {a.ID}, 1: {c.ID}},
		Cost:         3_000,
	})
	require.NoError(t, err)

	assert.Equal(t, map[int][]int64{0: {a.ID}, 1: {c.ID}}, updated.Participants)
	assert.Equal(t, int64(3_000), updated.Cost)
}

func TestReorderMatchesIsAllOrNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	c := e.mustWrestler(t, save.ID, "C")
	d := e.mustWrestler(t, save.ID, "D")

	first := e.mustSingle(t, save.ID, a.ID, b.ID)
	second := e.mustSingle(t, save.ID, c.ID, d.ID)

	// Partial and duplicate lists are rejected.
	err := e.planner.ReorderMatches(ctx, save.ID, []int64{first.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
	err = e.planner.ReorderMatches(ctx, save.ID, []int64{first.ID, first.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, e.planner.ReorderMatches(ctx, save.ID, []int64{second.ID, first.ID}))

	card, err := e.planner.ListPlannedMatches(ctx, save.ID)
	require.NoError(t, err)
	require.Len(t, card, 2)
	assert.Equal(t, second.ID, card[0].ID)
	assert.Equal(t, first.ID, card[1].ID)
}

func TestShowCostSumsBookings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	c := e.mustWrestler(t, save.ID, "C")
	d := e.mustWrestler(t, save.ID, "D")

	e.mustSingle(t, save.ID, a.ID, b.ID)
	e.mustSingle(t, save.ID, c.ID, d.ID)

	cost, err := e.planner.GetCurrentShowCost(ctx, save.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2_000), cost)
}

func TestDeletePlannedMatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	match := e.mustSingle(t, save.ID, a.ID, b.ID)

	require.NoError(t, e.planner.DeletePlannedMatch(ctx, save.ID, match.ID))

	card, err := e.planner.ListPlannedMatches(ctx, save.ID)
	require.NoError(t, err)
	assert.Empty(t, card)

	err = e.planner.DeletePlannedMatch(ctx, save.ID, match.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
