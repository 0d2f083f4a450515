/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

// Presenter receives every visible change the Machine makes. Calls happen
// synchronously, inside the Machine method that caused them.
type Presenter interface {
	RoundAdvanced(image string)
	ImageChanged(image string)
	ScoreChanged(score int)
	LivesChanged(lives int)
	JokersChanged(jokers int)
	IncorrectGuess(correctName, guessedName string, livesLeft int)
	GameOver()
	FilterEmpty()
	BestScoreChanged(best int, record bool)
}

// NopPresenter ignores everything.
type NopPresenter struct{}

func (NopPresenter) RoundAdvanced(string)                {}
func (NopPresenter) ImageChanged(string)                 {}
func (NopPresenter) ScoreChanged(int)                    {}
func (NopPresenter) LivesChanged(int)                    {}
func (NopPresenter) JokersChanged(int)                   {}
func (NopPresenter) IncorrectGuess(string, string, int)  {}
func (NopPresenter) GameOver()                           {}
func (NopPresenter) FilterEmpty()                        {}
func (NopPresenter) BestScoreChanged(int, bool)          {}
