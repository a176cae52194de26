package domain

import (
	"errors"
	"strings"
)

// Difficulty - уровень сложности соперников
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulties lists every tier in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty accepts tier names case-insensitively, and the menu
// shortcuts "1", "2", "3".
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "1":
		return DifficultyEasy, nil
	case "medium", "2":
		return DifficultyMedium, nil
	case "hard", "3":
		return DifficultyHard, nil
	default:
		return "", ErrUnknownDifficulty
	}
}

func (d Difficulty) Valid() bool {
	_, err := ParseDifficulty(string(d))
	return err == nil
}
