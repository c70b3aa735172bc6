package service

import (
	"errors"
	"testing"

	"github.com/AdamBeresnev/mariolympics/internal/bracket"
	apperrors "github.com/AdamBeresnev/mariolympics/internal/errors"
	"github.com/AdamBeresnev/mariolympics/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrorCodesAreDistinct(t *testing.T) {
	all := []*apperrors.Error{
		ErrNameRequired,
		ErrUnknownCharacter,
		ErrUnknownPlayer,
		ErrNotEnoughPlayers,
		ErrMalformedRosterRow,
		store.ErrUnknownPlayer,
		bracket.ErrSemifinalsPending,
		bracket.ErrWinnerNotInMatch,
		bracket.ErrMatchDecided,
	}

	seen := make(map[apperrors.Code]bool)
	for _, e := range all {
		assert.False(t, seen[e.Code], "code %s used twice", e.Code)
		seen[e.Code] = true
	}
}

func TestStoreUnknownPlayerIsNotAValidationError(t *testing.T) {
	assert.False(t, errors.Is(store.ErrUnknownPlayer, ErrUnknownPlayer))
	assert.False(t, errors.Is(ErrUnknownPlayer, store.ErrUnknownPlayer))
	assert.ErrorIs(t, store.ErrUnknownPlayer, apperrors.ErrStructural)
	assert.NotErrorIs(t, store.ErrUnknownPlayer, apperrors.ErrValidation)
}
