package game

import (
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"
)

// Scoring constants.
const (
	PointsCorrect   = 20
	PointsIncorrect = -10
	WordGuessWin    = 100
	WordGuessLose   = -50
	RevealCost      = 30
	LeaderboardSize = 10
)

// Duration returns the playing time allowed for a difficulty.
func Duration(difficulty int) time.Duration {
	switch difficulty {
	case 2:
		return 7 * time.Minute
	case 3:
		return 5 * time.Minute
	default:
		return 10 * time.Minute
	}
}

func difficultyMultiplier(difficulty int) float64 {
	switch difficulty {
	case 2:
		return 1.5
	case 3:
		return 2.0
	default:
		return 1.0
	}
}

// Mask returns the fully hidden form of word, one underscore per letter.
// Words are handled as runes throughout; the bank accepts non-ASCII words.
func Mask(word string) string {
	return strings.Repeat("_", utf8.RuneCountInString(word))
}

// ApplyLetter unmasks every position of word matching letter
// (case-insensitive, original case preserved). Returns the new mask and
// whether anything matched.
func ApplyLetter(word, masked, letter string) (string, bool) {
	lr := []rune(strings.ToLower(letter))
	if len(lr) != 1 {
		return masked, false
	}
	wordR := []rune(word)
	lowerR := []rune(strings.ToLower(word))
	out := []rune(masked)
	hit := false
	for i, r := range lowerR {
		if r == lr[0] && i < len(out) {
			out[i] = wordR[i]
			hit = true
		}
	}
	if !hit {
		return masked, false
	}
	return string(out), true
}

// Revealed reports whether the mask has no hidden letters left.
func Revealed(masked string) bool {
	return !strings.Contains(masked, "_")
}

// RevealRandom unmasks one random hidden position and returns the new mask
// and the revealed rune index, or -1 when nothing is hidden.
func RevealRandom(word, masked string) (string, int) {
	wordR := []rune(word)
	out := []rune(masked)
	hidden := []int{}
	for i, r := range out {
		if r == '_' {
			hidden = append(hidden, i)
		}
	}
	if len(hidden) == 0 {
		return masked, -1
	}
	pos := hidden[rand.Intn(len(hidden))]
	out[pos] = wordR[pos]
	return string(out), pos
}
