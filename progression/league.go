package progression

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// League is a weekly competition tier.
type League string

const (
	LeagueBronze   League = "bronze"
	LeagueSilver   League = "silver"
	LeagueGold     League = "gold"
	LeaguePlatinum League = "platinum"
	LeagueDiamond  League = "diamond"
)

// Leagues lists the tiers from lowest to highest.
var Leagues = []League{LeagueBronze, LeagueSilver, LeagueGold, LeaguePlatinum, LeagueDiamond}

var titleCaser = cases.Title(language.English)

func ParseLeague(s string) (League, error) {
	l := League(strings.ToLower(strings.TrimSpace(s)))
	if l.Index() < 0 {
		return "", fmt.Errorf("league tier %q: %w", s, ErrOutOfRange)
	}
	return l, nil
}

func (l League) Index() int {
	for i, lg := range Leagues {
		if lg == l {
			return i
		}
	}
	return -1
}

// Promote returns the tier above l; at diamond it returns l and false.
func (l League) Promote() (League, bool) {
	i := l.Index()
	if i < 0 || i == len(Leagues)-1 {
		return l, false
	}
	return Leagues[i+1], true
}

// Demote returns the tier below l; at bronze it returns l and false.
func (l League) Demote() (League, bool) {
	i := l.Index()
	if i <= 0 {
		return l, false
	}
	return Leagues[i-1], true
}

// DisplayName is the human readable tier name ("Platinum").
func (l League) DisplayName() string {
	return titleCaser.String(string(l))
}
