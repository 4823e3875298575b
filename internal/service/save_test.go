package service

import (
	"context"
	"testing"

	"lucha-gm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSaveStartsAtWeekOne(t *testing.T) {
	e := newEnv(t)

	save := e.mustSave(t)

	assert.Equal(t, 1, save.CurrentWeek)
	assert.Equal(t, testStartingCash, save.CurrentCash)
	assert.Equal(t, "Lucha Libre Uno", save.Name)
}

func TestCreateSaveRequiresName(t *testing.T) {
	e := newEnv(t)

	_, err := e.saves.CreateSave(context.Background(), "   ", "AAA", "#fff")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSavesAreIsolated(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := e.mustSave(t)
	second, err := e.saves.CreateSave(ctx, "Second Promotion", "CMLL", "#00f")
	require.NoError(t, err)

	e.mustWrestler(t, first.ID, "Rey Dorado")

	roster, err := e.roster.ListWrestlers(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, roster)

	roster, err = e.roster.ListWrestlers(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestDeleteSaveCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	save := e.mustSave(t)
	w := e.mustWrestler(t, save.ID, "Rey Dorado")
	e.mustTitle(t, save.ID, "World", domain.CategoryWorld)

	require.NoError(t, e.saves.DeleteSave(ctx, save.ID))

	_, err := e.saves.GetSave(ctx, save.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.roster.GetWrestler(ctx, save.ID, w.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMissingSave(t *testing.T) {
	e := newEnv(t)

	err := e.saves.DeleteSave(context.Background(), 12345)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
