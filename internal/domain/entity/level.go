package entity

import (
	"math"
)

// UnboundedXP marks the open upper edge of the last tier.
const UnboundedXP int64 = math.MaxInt64

type UserLevel struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	MinXP int64  `json:"minXp"`
	MaxXP int64  `json:"maxXp"`
}

// Levels is contiguous and sorted by MinXP.
var Levels = []UserLevel{
	{Level: 1, Title: "Eco Beginner", MinXP: 0, MaxXP: 100},
	{Level: 2, Title: "Green Novice", MinXP: 100, MaxXP: 250},
	{Level: 3, Title: "Earth Friend", MinXP: 250, MaxXP: 500},
	{Level: 4, Title: "Eco Enthusiast", MinXP: 500, MaxXP: 1000},
	{Level: 5, Title: "Green Guardian", MinXP: 1000, MaxXP: 2000},
	{Level: 6, Title: "Planet Protector", MinXP: 2000, MaxXP: 4000},
	{Level: 7, Title: "Environmental Hero", MinXP: 4000, MaxXP: 8000},
	{Level: 8, Title: "Earth Champion", MinXP: 8000, MaxXP: 16000},
	{Level: 9, Title: "Sustainability Sage", MinXP: 16000, MaxXP: 32000},
	{Level: 10, Title: "Legendary EcoWarrior", MinXP: 32000, MaxXP: UnboundedXP},
}

// GetUserLevel returns the highest tier whose MinXP is at or below xp.
// Negative xp falls back to the first tier.
func GetUserLevel(xp int64) UserLevel {
	for i := len(Levels) - 1; i >= 0; i-- {
		if xp >= Levels[i].MinXP {
			return Levels[i]
		}
	}
	return Levels[0]
}

func (l UserLevel) Unbounded() bool {
	return l.MaxXP == UnboundedXP
}

// Progress returns how far xp is through the tier as a rounded percentage.
func (l UserLevel) Progress(xp int64) int {
	if l.Unbounded() {
		return 100
	}
	span := l.MaxXP - l.MinXP
	if span <= 0 {
		return 100
	}
	pct := int(math.Round(float64(xp-l.MinXP) / float64(span) * 100))
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
