package game

import "errors"

var (
	ErrNoActiveGame      = errors.New("no active game")
	ErrGameNotActive     = errors.New("game is not active")
	ErrGameExpired       = errors.New("game has expired")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNotInGame         = errors.New("you are not part of this game")
	ErrNotJoinable       = errors.New("cannot join game that is not in waiting status")
	ErrAlreadyJoined     = errors.New("you are already in this game")
	ErrOpenGameExists    = errors.New("you already have an active or waiting game")
	ErrNoWords           = errors.New("no words available for this difficulty")
	ErrBadDifficulty     = errors.New("difficulty must be 1, 2 or 3")
	ErrNothingToReveal   = errors.New("no hidden letters to reveal")
	ErrInsufficientCoins = errors.New("not enough coins")
)
