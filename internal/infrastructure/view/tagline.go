package view

import "math/rand/v2"

var taglines = []string{
	"Code like nobody's watching.",
	"Ship it, then make it shine.",
	"Every bug is a lesson in disguise.",
	"Small commits, big impact.",
	"Read the docs. Then read the source.",
	"The best code is the code you delete.",
}

// Tagline returns a random tagline for the about page.
func Tagline() string {
	return taglines[rand.IntN(len(taglines))]
}
