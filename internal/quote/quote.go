package quote

import "math/rand/v2"

// Quote is a line shown on the start screen.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

var quotes = []Quote{
	{"Strategy requires thought, tactics require observation.", "Max Euwe"},
	{"Play is the highest form of research.", "Albert Einstein"},
	{"Games give you a chance to excel.", "Gary Gygax"},
	{"In every game, the best move is not obvious.", "Magnus Carlsen"},
	{"A game is a puzzle that plays back.", "Sid Meier"},
	{"Every move counts.", "Classic Proverb"},
	{"Simple rules create complex strategy.", "Game Design Quote"},
	{"You learn more from losing than winning.", "Unknown"},
}

// All returns every quote.
func All() []Quote {
	return append([]Quote(nil), quotes...)
}

// Random picks a quote uniformly.
func Random() Quote {
	return quotes[rand.IntN(len(quotes))]
}
