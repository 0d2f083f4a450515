/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import "slices"

type OutcomeKind int

const (
	InvalidSelection OutcomeKind = iota
	Correct
	Incorrect
)

func (k OutcomeKind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "invalid_selection"
	}
}

// Outcome of one guess. Names are only set for Incorrect.
type Outcome struct {
	Kind        OutcomeKind
	CorrectName string
	GuessedName string
}

// Evaluate compares a guessed episode id against the target. Guesses outside
// allowed are invalid. It has no side effects.
func Evaluate(allowed []string, target, candidate string, name func(episode string) string) Outcome {
	if candidate == "" || !slices.Contains(allowed, candidate) {
		return Outcome{Kind: InvalidSelection}
	}

	if candidate == target {
		return Outcome{Kind: Correct}
	}

	return Outcome{
		Kind:        Incorrect,
		CorrectName: name(target),
		GuessedName: name(candidate),
	}
}
