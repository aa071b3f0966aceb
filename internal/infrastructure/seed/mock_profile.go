package seed

import (
	"time"

	"greentask/internal/domain/entity"
	"greentask/pkg/utils"
)

const day = 24 * time.Hour

// MockProfileSeeder hands every connected wallet the same demo profile, with
// dates placed relative to the connection time.
type MockProfileSeeder struct{}

func NewMockProfileSeeder() *MockProfileSeeder {
	return &MockProfileSeeder{}
}

func (MockProfileSeeder) Seed(publicKey string, now time.Time) *entity.UserProfile {
	firstTaskAt := now.Add(-7 * day)
	recyclingAt := now.Add(-3 * day)
	yesterday := now.Add(-day)

	return &entity.UserProfile{
		Username:             str("EcoWarrior"),
		Bio:                  str("Passionate about making the world greener, one task at a time."),
		TotalGreenTokens:     465,
		AvailableGreenTokens: 420,
		StakingGreenTokens:   45,
		EcoImpactScore:       87,
		Karma:                124,
		XP:                   780,
		Level:                entity.GetUserLevel(780),
		Achievements: []entity.Achievement{
			{
				ID:          "first-task",
				Title:       "First Steps",
				Description: "Complete your first eco-task",
				Icon:        "🌱",
				UnlockedAt:  &firstTaskAt,
				Rarity:      entity.RarityCommon,
				Progress:    1,
				Target:      1,
			},
			{
				ID:          utils.CatalogID("Recycling Pro"),
				Title:       "Recycling Pro",
				Description: "Complete 5 recycling tasks",
				Icon:        "♻️",
				UnlockedAt:  &recyclingAt,
				Rarity:      entity.RarityUncommon,
				Progress:    5,
				Target:      5,
			},
		},
		Badges: []entity.EcoBadge{
			{
				ID:          utils.CatalogID("Early Adopter"),
				Name:        "Early Adopter",
				Description: "Joined GreenTask during its beta phase",
				ImageURL:    "https://images.unsplash.com/photo-1518495973542-4542c06a5843?w=800&auto=format&fit=crop",
				Rarity:      entity.RarityRare,
				EarnedAt:    now.Add(-30 * day),
			},
		},
		TasksCompleted: 12,
		Streak: entity.Streak{
			Current:      3,
			Longest:      5,
			LastActivity: &yesterday,
		},
		JoinedAt: now.Add(-60 * day),
		Location: entity.Location{
			City:    str("San Francisco"),
			Country: str("USA"),
		},
	}
}

func str(s string) *string {
	return &s
}
