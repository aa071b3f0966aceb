package entity

import (
	"encoding/json"
	"time"
)

type Achievement struct {
	ID          string     `json:"id" validate:"omitempty,max=64"`
	Title       string     `json:"title" validate:"required,max=120"`
	Description string     `json:"description" validate:"max=500"`
	Icon        string     `json:"icon"`
	UnlockedAt  *time.Time `json:"unlockedAt"`
	Rarity      Rarity     `json:"rarity" validate:"omitempty,oneof=common uncommon rare legendary"`
	Progress    int        `json:"progress" validate:"min=0"`
	Target      int        `json:"target" validate:"min=0"`
}

// Unlocked reports whether the achievement has left the in-progress state.
func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}

// MarshalJSON adds the derived unlocked flag and rarity variant.
func (a Achievement) MarshalJSON() ([]byte, error) {
	type plain Achievement
	return json.Marshal(struct {
		plain
		Unlocked bool   `json:"unlocked"`
		Variant  string `json:"variant"`
	}{plain(a), a.Unlocked(), a.Rarity.Variant()})
}

type EcoBadge struct {
	ID          string    `json:"id" validate:"omitempty,max=64"`
	Name        string    `json:"name" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=500"`
	ImageURL    string    `json:"imageUrl" validate:"omitempty,url"`
	Rarity      Rarity    `json:"rarity" validate:"omitempty,oneof=common uncommon rare legendary"`
	EarnedAt    time.Time `json:"earnedAt"`
}

func (b EcoBadge) MarshalJSON() ([]byte, error) {
	type plain EcoBadge
	return json.Marshal(struct {
		plain
		Variant string `json:"variant"`
	}{plain(b), b.Rarity.Variant()})
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Variant returns the badge style the UI renders for a rarity.
func (r Rarity) Variant() string {
	switch r {
	case RarityLegendary:
		return "gold"
	case RarityRare:
		return "purple"
	case RarityUncommon:
		return "eco"
	default:
		return "secondary"
	}
}
