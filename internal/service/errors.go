package service

import (
	apperrors "github.com/AdamBeresnev/mariolympics/internal/errors"
)

var (
	ErrNameRequired       = apperrors.New(apperrors.KindValidation, "NAME_REQUIRED", "first name is required")
	ErrUnknownCharacter   = apperrors.New(apperrors.KindValidation, "UNKNOWN_CHARACTER", "unknown character")
	ErrUnknownPlayer      = apperrors.New(apperrors.KindValidation, "UNKNOWN_PLAYER", "player does not exist")
	ErrNotEnoughPlayers   = apperrors.New(apperrors.KindValidation, "NOT_ENOUGH_PLAYERS", "a tournament needs at least two players")
	ErrMalformedRosterRow = apperrors.New(apperrors.KindValidation, "MALFORMED_ROSTER_LINE", "expected \"First Last, Character\"")
)

func invalid(base *apperrors.Error, cause error) error {
	return apperrors.Wrap(base.Kind, base.Code, base.Message, cause)
}
