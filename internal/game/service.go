package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/MoFaraz/guess-words/internal/store"
)

// Service runs the game rules against the store.
type Service struct {
	Store  *store.Store
	Logger *zap.SugaredLogger
	// OnCompleted is called after a game finishes and rewards are handed
	// out; the server hooks leaderboard-cache invalidation here.
	OnCompleted func(ctx context.Context)
}

// LevelUp reports a player crossing one or more level thresholds.
type LevelUp struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	NewLevel     int    `json:"new_level"`
	LevelsGained int    `json:"levels_gained"`
	XPGained     int    `json:"xp_gained"`
}

// GuessResult is the outcome of a letter guess.
type GuessResult struct {
	Hit      bool
	Points   int
	Finished bool
	Game     *store.Game
}

// WordGuessResult is the outcome of a full-word guess; either way the game
// is over.
type WordGuessResult struct {
	Correct bool
	Game    *store.Game
}

// RevealResult is the outcome of buying a letter reveal.
type RevealResult struct {
	MaskedWord     string `json:"masked_word"`
	Position       int    `json:"position"`
	CoinsSpent     int    `json:"coins_spent"`
	RemainingCoins int    `json:"remaining_coins"`
}

// Create starts a new waiting game for the creator, drawing a random word of
// the requested difficulty. The creator joins as the first player.
func (s *Service) Create(ctx context.Context, creatorID int64, difficulty int) (*store.Game, error) {
	if difficulty < store.DifficultyEasy || difficulty > store.DifficultyHard {
		return nil, ErrBadDifficulty
	}
	open, err := s.Store.HasOpenGame(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrOpenGameExists
	}
	word, err := s.Store.RandomWord(ctx, difficulty)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoWords
		}
		return nil, err
	}
	g := &store.Game{
		CreatorID:  creatorID,
		Difficulty: difficulty,
		Word:       word,
		MaskedWord: Mask(word),
		Status:     store.StatusWaiting,
	}
	if err := s.Store.CreateGame(ctx, g); err != nil {
		return nil, err
	}
	if err := s.Store.AddPlayer(ctx, &store.Player{UserID: creatorID, GameID: g.ID}); err != nil {
		return nil, err
	}
	return g, nil
}

// Join adds the user to a waiting game and starts it: the clock begins and
// the first joined player takes the turn.
func (s *Service) Join(ctx context.Context, userID, gameID int64) (*store.Player, *store.Game, error) {
	g, err := s.Store.GameByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if g.Status != store.StatusWaiting {
		return nil, nil, ErrNotJoinable
	}
	if _, err := s.Store.PlayerInGame(ctx, userID, gameID); err == nil {
		return nil, nil, ErrAlreadyJoined
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, err
	}
	p := &store.Player{UserID: userID, GameID: gameID}
	if err := s.Store.AddPlayer(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, nil, ErrAlreadyJoined
		}
		return nil, nil, err
	}

	players, err := s.Store.PlayersForGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now().UTC()
	end := now.Add(Duration(g.Difficulty))
	g.StartTime = &now
	g.EndTime = &end
	g.Status = store.StatusActive
	turn := players[0].UserID
	g.CurrentTurnID = &turn
	if err := s.Store.UpdateGame(ctx, g); err != nil {
		return nil, nil, err
	}
	return p, g, nil
}

// GuessLetter processes a letter guess in the caller's active game.
func (s *Service) GuessLetter(ctx context.Context, userID int64, letter string) (*GuessResult, error) {
	g, err := s.Store.ActiveGameForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}
	if expired(g) {
		if _, _, err := s.endGame(ctx, g, true); err != nil {
			s.Logger.Warnw("ending expired game failed", "game", g.ID, "error", err)
		}
		return nil, ErrGameExpired
	}
	if g.CurrentTurnID == nil || *g.CurrentTurnID != userID {
		return nil, ErrNotYourTurn
	}
	player, err := s.Store.PlayerInGame(ctx, userID, g.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotInGame
		}
		return nil, err
	}

	newMasked, hit := ApplyLetter(g.Word, g.MaskedWord, letter)
	points := PointsIncorrect
	if hit {
		points = PointsCorrect
		g.MaskedWord = newMasked
	}
	player.Score += points
	if err := s.Store.UpdatePlayerScore(ctx, player.ID, player.Score); err != nil {
		return nil, err
	}
	if err := s.Store.AddGuess(ctx, &store.GuessRecord{
		PlayerID:  player.ID,
		GameID:    g.ID,
		Letter:    letter,
		IsCorrect: hit,
		Points:    points,
	}); err != nil {
		return nil, err
	}

	finished := hit && Revealed(g.MaskedWord)
	if err := s.rotateTurn(ctx, g); err != nil {
		return nil, err
	}
	if finished {
		if _, _, err := s.endGame(ctx, g, false); err != nil {
			return nil, err
		}
	} else if err := s.Store.UpdateGame(ctx, g); err != nil {
		return nil, err
	}
	return &GuessResult{Hit: hit, Points: points, Finished: finished, Game: g}, nil
}

// GuessWord processes a full-word guess. Correct wins the game for the
// caller; wrong hands the win to the opponent. Either way the game ends.
func (s *Service) GuessWord(ctx context.Context, userID int64, word string) (*WordGuessResult, error) {
	g, err := s.Store.ActiveGameForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGameNotActive
		}
		return nil, err
	}
	player, err := s.Store.PlayerInGame(ctx, userID, g.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotInGame
		}
		return nil, err
	}

	correct := strings.EqualFold(word, g.Word)
	g.MaskedWord = g.Word
	record := &store.GameRecord{GameID: g.ID, PlayerID: player.ID, GuessedWord: word}
	if correct {
		record.Score = WordGuessWin
		record.Result = store.ResultWin
		// the full-word win decides the game regardless of letter scores
		player.Score += WordGuessWin
	} else {
		record.Score = WordGuessLose
		record.Result = store.ResultLose
		player.Score += WordGuessLose
	}
	if err := s.Store.UpdatePlayerScore(ctx, player.ID, player.Score); err != nil {
		return nil, err
	}
	if err := s.Store.AddGameRecord(ctx, record); err != nil {
		return nil, err
	}
	if _, _, err := s.endGame(ctx, g, false); err != nil {
		return nil, err
	}
	return &WordGuessResult{Correct: correct, Game: g}, nil
}

// RevealLetter spends coins to unmask one random hidden letter in the
// caller's active game.
func (s *Service) RevealLetter(ctx context.Context, userID int64) (*RevealResult, error) {
	g, err := s.Store.ActiveGameForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGameNotActive
		}
		return nil, err
	}
	if _, err := s.Store.PlayerInGame(ctx, userID, g.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotInGame
		}
		return nil, err
	}
	if Revealed(g.MaskedWord) {
		return nil, ErrNothingToReveal
	}
	user, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.DeductCoins(RevealCost) {
		return nil, ErrInsufficientCoins
	}
	if err := s.Store.SaveUserProgress(ctx, user); err != nil {
		return nil, err
	}
	masked, pos := RevealRandom(g.Word, g.MaskedWord)
	g.MaskedWord = masked
	if err := s.Store.UpdateGame(ctx, g); err != nil {
		return nil, err
	}
	return &RevealResult{
		MaskedWord:     masked,
		Position:       pos + 1,
		CoinsSpent:     RevealCost,
		RemainingCoins: user.Coin,
	}, nil
}

// SweepExpired completes every active game whose deadline has passed.
// Returns how many games were closed.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	games, err := s.Store.ActiveGames(ctx)
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, g := range games {
		if !expired(g) {
			continue
		}
		if _, _, err := s.endGame(ctx, g, true); err != nil {
			return closed, fmt.Errorf("end game %d: %w", g.ID, err)
		}
		closed++
	}
	return closed, nil
}

func expired(g *store.Game) bool {
	return g.Status == store.StatusActive && g.EndTime != nil && time.Now().After(*g.EndTime)
}

func (s *Service) rotateTurn(ctx context.Context, g *store.Game) error {
	players, err := s.Store.PlayersForGame(ctx, g.ID)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return nil
	}
	if g.CurrentTurnID == nil {
		g.CurrentTurnID = &players[0].UserID
		return nil
	}
	for i, p := range players {
		if p.UserID == *g.CurrentTurnID {
			next := players[(i+1)%len(players)].UserID
			g.CurrentTurnID = &next
			return nil
		}
	}
	g.CurrentTurnID = &players[0].UserID
	return nil
}

// endGame completes the game and, with two or more players, distributes XP
// and coins by final standing.
func (s *Service) endGame(ctx context.Context, g *store.Game, timedOut bool) (*store.Player, []LevelUp, error) {
	g.Status = store.StatusCompleted
	if err := s.Store.UpdateGame(ctx, g); err != nil {
		return nil, nil, err
	}

	players, err := s.Store.PlayersForGame(ctx, g.ID)
	if err != nil {
		return nil, nil, err
	}
	sortByScoreDesc(players)
	var winner *store.Player
	if len(players) > 0 {
		winner = players[0]
	}

	var levelUps []LevelUp
	if len(players) >= 2 {
		mult := difficultyMultiplier(g.Difficulty)
		lengthMod := float64(utf8.RuneCountInString(g.Word)) / 5
		completed := !timedOut && Revealed(g.MaskedWord)

		timeBonus := 0.0
		if !timedOut && g.StartTime != nil {
			maxTime := Duration(g.Difficulty).Seconds()
			elapsed := time.Now().UTC().Sub(*g.StartTime).Seconds()
			if elapsed < maxTime {
				timeBonus = 50 * (1 - elapsed/maxTime)
			}
		}
		wordBonus := 0.0
		if completed {
			wordBonus = 30 * mult
		}

		for i, p := range players {
			positionXP, coins := standingRewards(i, mult)
			scoreXP := p.Score / 5
			if scoreXP < 0 {
				scoreXP = 0
			}
			if completed {
				coins += 10 * mult
			}
			totalXP := int((float64(positionXP+scoreXP+10) + wordBonus + timeBonus) * mult * lengthMod)
			if totalXP < 15 {
				totalXP = 15
			}

			user, err := s.Store.UserByID(ctx, p.UserID)
			if err != nil {
				return nil, nil, err
			}
			leveled, gained := user.AddXP(totalXP)
			user.AddCoins(int(coins))
			if err := s.Store.SaveUserProgress(ctx, user); err != nil {
				return nil, nil, err
			}
			if leveled {
				levelUps = append(levelUps, LevelUp{
					UserID:       user.ID,
					Username:     user.Username,
					NewLevel:     user.Level,
					LevelsGained: gained,
					XPGained:     totalXP,
				})
			}

			result := store.ResultLose
			if i == 0 {
				result = store.ResultWin
			}
			guessed := g.MaskedWord
			if Revealed(g.MaskedWord) {
				guessed = g.Word
			}
			if err := s.Store.AddGameRecord(ctx, &store.GameRecord{
				GameID:      g.ID,
				PlayerID:    p.ID,
				Score:       p.Score,
				Result:      result,
				GuessedWord: guessed,
			}); err != nil {
				return nil, nil, err
			}
		}
	}

	if s.OnCompleted != nil {
		s.OnCompleted(ctx)
	}
	return winner, levelUps, nil
}

// standingRewards maps final standing to position XP and coins.
func standingRewards(position int, mult float64) (int, float64) {
	switch position {
	case 0:
		return 50, 50 * mult
	case 1:
		return 30, 30 * mult
	default:
		return 10, 10 * mult
	}
}

func sortByScoreDesc(players []*store.Player) {
	sort.SliceStable(players, func(i, j int) bool { return players[i].Score > players[j].Score })
}
