package service

import (
	"context"
	"testing"

	"lucha-gm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMatchUpdatesRecordsAndLog(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "Rey Dorado")
	b := e.mustWrestler(t, save.ID, "Máscara Negra")
	match := e.mustSingle(t, save.ID, a.ID, b.ID)

	result, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, a.ID, 4)
	require.NoError(t, err)
	assert.False(t, result.TitleChange)
	assert.Equal(t, "Rey Dorado def. Máscara Negra", result.ResultText)

	winner, err := e.roster.GetWrestler(ctx, save.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 0, winner.Losses)

	loser, err := e.roster.GetWrestler(ctx, save.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loser.Wins)
	assert.Equal(t, 1, loser.Losses)

	resolved, err := e.planner.ListPlannedMatches(ctx, save.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].IsCompleted)
	assert.Equal(t, result.ResultText, resolved[0].ResultText)

	log, err := e.week.GetMatchesByWeek(ctx, save.ID, 1)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, []int64{a.ID}, log[0].Winners)
	assert.Equal(t, []int64{b.ID}, log[0].Losers)
	assert.Equal(t, 4, log[0].Rating)
}

func TestResolveMatchTwiceFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	match := e.mustSingle(t, save.ID, a.ID, b.ID)

	_, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, a.ID, 3)
	require.NoError(t, err)

	_, err = e.resolution.ResolveMatch(ctx, save.ID, match.ID, b.ID, 3)
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)

	// The failed second attempt left no trace.
	winner, err := e.roster.GetWrestler(ctx, save.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 0, winner.Losses)
}

func TestResolveMatchRejectsOutsideWinner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	outsider := e.mustWrestler(t, save.ID, "C")
	match := e.mustSingle(t, save.ID, a.ID, b.ID)

	_, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, outsider.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidWinner)

	card, err := e.planner.ListPlannedMatches(ctx, save.ID)
	require.NoError(t, err)
	assert.False(t, card[0].IsCompleted)
}

func TestResolveTitleMatchVacantBeltCoronation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "Rey Dorado")
	b := e.mustWrestler(t, save.ID, "Máscara Negra")
	title := e.mustTitle(t, save.ID, "World", domain.CategoryWorld)
	match := e.mustTitleSingle(t, save.ID, a.ID, b.ID, title.ID)

	result, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, a.ID, 5)
	require.NoError(t, err)
	assert.True(t, result.TitleChange)
	assert.Equal(t, "Rey Dorado def. Máscara Negra to win the World", result.ResultText)

	titles, err := e.titles.ListTitles(ctx, save.ID)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	require.NotNil(t, titles[0].Holder1ID)
	assert.Equal(t, a.ID, *titles[0].Holder1ID)
	assert.Equal(t, 1, titles[0].WeekWon)

	// A vacant belt being filled writes no reign history.
	reigns, err := e.titles.GetTitleHistory(ctx, save.ID, title.ID)
	require.NoError(t, err)
	assert.Empty(t, reigns)
}

func TestResolveTitleMatchChampionRetains(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	champ := e.mustWrestler(t, save.ID, "Rey Dorado")
	challenger := e.mustWrestler(t, save.ID, "Máscara Negra")
	title := e.mustTitle(t, save.ID, "World", domain.CategoryWorld)
	_, err := e.titles.AssignTitleWithHistory(ctx, save.ID, title.ID, &champ.ID, nil)
	require.NoError(t, err)

	match := e.mustTitleSingle(t, save.ID, champ.ID, challenger.ID, title.ID)
	result, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, champ.ID, 4)
	require.NoError(t, err)
	assert.False(t, result.TitleChange)

	reigns, err := e.titles.GetTitleHistory(ctx, save.ID, title.ID)
	require.NoError(t, err)
	assert.Empty(t, reigns)
}

func TestResolveTitleMatchChampionDethroned(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	champ := e.mustWrestler(t, save.ID, "Rey Dorado")
	challenger := e.mustWrestler(t, save.ID, "Máscara Negra")
	title := e.mustTitle(t, save.ID, "World", domain.CategoryWorld)
	_, err := e.titles.AssignTitleWithHistory(ctx, save.ID, title.ID, &champ.ID, nil)
	require.NoError(t, err)

	match := e.mustTitleSingle(t, save.ID, champ.ID, challenger.ID, title.ID)
	result, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, challenger.ID, 5)
	require.NoError(t, err)
	assert.True(t, result.TitleChange)

	titles, err := e.titles.ListTitles(ctx, save.ID)
	require.NoError(t, err)
	require.NotNil(t, titles[0].Holder1ID)
	assert.Equal(t, challenger.ID, *titles[0].Holder1ID)

	reigns, err := e.titles.GetTitleHistory(ctx, save.ID, title.ID)
	require.NoError(t, err)
	require.Len(t, reigns, 1)
	assert.Equal(t, "Rey Dorado", reigns[0].Holder1Name)
	assert.Equal(t, "Máscara Negra", reigns[0].DefeatedBy1)
}

func TestResolveTagTitleMatchNewChampions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	c := e.mustWrestler(t, save.ID, "C")
	d := e.mustWrestler(t, save.ID, "D")
	title := e.mustTitle(t, save.ID, "Tag", domain.CategoryTag)
	_, err := e.titles.AssignTitleWithHistory(ctx, save.ID, title.ID, &a.ID, &b.ID)
	require.NoError(t, err)

	match, err := e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchTag,
		Participants: map[int][]int64{0: {a.ID, b.ID}, 1: {c.ID, d.ID}},
		IsTitleMatch: true,
		TitleID:      &title.ID,
	})
	require.NoError(t, err)

	result, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, c.ID, 4)
	require.NoError(t, err)
	assert.True(t, result.TitleChange)

	titles, err := e.titles.ListTitles(ctx, save.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{c.ID, d.ID}, titles[0].HolderIDs())

	// Both teammates got the win, both champions the loss.
	for _, id := range []int64{c.ID, d.ID} {
		w, err := e.roster.GetWrestler(ctx, save.ID, id)
		require.NoError(t, err)
		assert.Equal(t, 1, w.Wins)
	}
	for _, id := range []int64{a.ID, b.ID} {
		w, err := e.roster.GetWrestler(ctx, save.ID, id)
		require.NoError(t, err)
		assert.Equal(t, 1, w.Losses)
	}

	reigns, err := e.titles.GetTitleHistory(ctx, save.ID, title.ID)
	require.NoError(t, err)
	require.Len(t, reigns, 1)
	assert.Equal(t, "C", reigns[0].DefeatedBy1)
	assert.Equal(t, "D", reigns[0].DefeatedBy2)
}

func TestResolveNeverSetsCoHolderOnSinglesBelt(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	c := e.mustWrestler(t, save.ID, "C")
	d := e.mustWrestler(t, save.ID, "D")
	world := e.mustTitle(t, save.ID, "World", domain.CategoryWorld)

	// Write the booking through the repository so a team format carrying a
	// singles belt reaches resolution without the planner's format check.
	matchID, err := e.plannerRepo.Insert(ctx, &domain.PlannedMatch{
		SaveID:       save.ID,
		Week:         save.CurrentWeek,
		Type:         domain.MatchTag,
		Participants: map[int][]int64{0: {a.ID, b.ID}, 1: {c.ID, d.ID}},
		IsTitleMatch: true,
		TitleID:      &world.ID,
	})
	require.NoError(t, err)

	result, err := e.resolution.ResolveMatch(ctx, save.ID, matchID, a.ID, 4)
	require.NoError(t, err)
	assert.True(t, result.TitleChange)

	titles, err := e.titles.ListTitles(ctx, save.ID)
	require.NoError(t, err)
	require.NotNil(t, titles[0].Holder1ID)
	assert.Equal(t, a.ID, *titles[0].Holder1ID)
	assert.Nil(t, titles[0].Holder2ID)
}

func TestResolveTitleMatchHolderOnWinningTeamRetains(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	c := e.mustWrestler(t, save.ID, "C")
	title := e.mustTitle(t, save.ID, "World", domain.CategoryWorld)
	_, err := e.titles.AssignTitleWithHistory(ctx, save.ID, title.ID, &a.ID, nil)
	require.NoError(t, err)

	match, err := e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchTripleThreat,
		Participants: map[int][]int64{0: {a.ID}, 1: {b.ID}, 2: {c.ID}},
		IsTitleMatch: true,
		TitleID:      &title.ID,
	})
	require.NoError(t, err)

	result, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, a.ID, 4)
	require.NoError(t, err)
	assert.False(t, result.TitleChange)

	// Both non-winning teams took the loss.
	for _, id := range []int64{b.ID, c.ID} {
		w, err := e.roster.GetWrestler(ctx, save.ID, id)
		require.NoError(t, err)
		assert.Equal(t, 1, w.Losses)
	}
}

func TestResolveMultiTeamLosersInResultText(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	save := e.mustSave(t)
	a := e.mustWrestler(t, save.ID, "A")
	b := e.mustWrestler(t, save.ID, "B")
	c := e.mustWrestler(t, save.ID, "C")
	d := e.mustWrestler(t, save.ID, "D")

	match, err := e.planner.AddPlannedMatch(ctx, save.ID, PlannedMatchInput{
		Type:         domain.MatchFatalFourWay,
		Participants: map[int][]int64{0: {a.ID}, 1: {b.ID}, 2: {c.ID}, 3: {d.ID}},
	})
	require.NoError(t, err)

	result, err := e.resolution.ResolveMatch(ctx, save.ID, match.ID, b.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, "B def. A, C, D", result.ResultText)
}

func TestResolveUnknownMatch(t *testing.T) {
	e := newEnv(t)
	save := e.mustSave(t)

	_, err := e.resolution.ResolveMatch(context.Background(), save.ID, 9999, 1, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
