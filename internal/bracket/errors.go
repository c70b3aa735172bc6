package bracket

import (
	apperrors "github.com/AdamBeresnev/mariolympics/internal/errors"
)

var (
	ErrNilMatch          = apperrors.New(apperrors.KindValidation, "MATCH_REQUIRED", "match cannot be nil")
	ErrNilWinner         = apperrors.New(apperrors.KindValidation, "WINNER_REQUIRED", "winner cannot be nil")
	ErrNilPlayer         = apperrors.New(apperrors.KindValidation, "PLAYER_REQUIRED", "player cannot be nil")
	ErrWinnerNotInMatch  = apperrors.New(apperrors.KindValidation, "WINNER_NOT_IN_MATCH", "the specified player is not part of this match")
	ErrSlotOccupied      = apperrors.New(apperrors.KindValidation, "SLOT_OCCUPIED", "match slot is already occupied")
	ErrMatchFull         = apperrors.New(apperrors.KindValidation, "MATCH_FULL", "both players are already assigned to this match")
	ErrMatchDecided      = apperrors.New(apperrors.KindValidation, "MATCH_DECIDED", "match already has a winner")
	ErrMatchNotInBracket = apperrors.New(apperrors.KindValidation, "MATCH_NOT_IN_BRACKET", "match is not part of this bracket")

	ErrMatchNotReady     = apperrors.New(apperrors.KindNotReady, "MATCH_NOT_READY", "match is still waiting for players")
	ErrSemifinalsPending = apperrors.New(apperrors.KindNotReady, "SEMIFINALS_PENDING", "both semifinals must be decided first")
	ErrNotComplete       = apperrors.New(apperrors.KindNotReady, "BRACKET_NOT_COMPLETE", "bracket is not complete")

	ErrNextMatchMissing = apperrors.New(apperrors.KindStructural, "NEXT_MATCH_MISSING", "next round match does not exist")
	ErrNextMatchFull    = apperrors.New(apperrors.KindStructural, "NEXT_MATCH_FULL", "next round match already has two players")
)
