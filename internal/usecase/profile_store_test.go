package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greentask/internal/domain/entity"
	apperrors "greentask/pkg/errors"
)

type stubSeeder struct {
	profile func(now time.Time) *entity.UserProfile
	calls   []string
}

func (s *stubSeeder) Seed(publicKey string, now time.Time) *entity.UserProfile {
	s.calls = append(s.calls, publicKey)
	return s.profile(now)
}

func baseProfile(xp int64) func(time.Time) *entity.UserProfile {
	return func(now time.Time) *entity.UserProfile {
		return &entity.UserProfile{
			TotalGreenTokens:     100,
			AvailableGreenTokens: 80,
			XP:                   xp,
			JoinedAt:             now,
		}
	}
}

type mutableClock struct {
	now time.Time
}

func (c *mutableClock) Now() time.Time { return c.now }

// newConnectedStore returns a store with a seeded profile at xp, backed by a
// real sink so notifications can be asserted on.
func newConnectedStore(t *testing.T, xp int64, clock *mutableClock) (*ProfileStore, *NotificationSink) {
	t.Helper()
	sink := NewNotificationSink(WithNotificationClock(clock.Now), WithNotificationIDGenerator(sequentialIDs()))
	store := NewProfileStore(sink, &stubSeeder{profile: baseProfile(xp)}, WithProfileClock(clock.Now))
	store.HandleWalletState(entity.WalletState{Connected: true, PublicKey: "wallet-1"})
	require.NotNil(t, store.Snapshot().UserProfile)
	return store, sink
}

func TestProfileStore_HandleWalletState(t *testing.T) {
	clock := &mutableClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	seeder := &stubSeeder{profile: baseProfile(120)}
	store := NewProfileStore(NewNotificationSink(), seeder, WithProfileClock(clock.Now))

	snap := store.Snapshot()
	assert.True(t, snap.IsLoading)
	assert.Nil(t, snap.UserProfile)

	store.HandleWalletState(entity.WalletState{Connected: true})
	snap = store.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Nil(t, snap.UserProfile, "connected without a public key is not an active wallet")
	assert.Empty(t, seeder.calls)

	store.HandleWalletState(entity.WalletState{Connected: true, PublicKey: "wallet-9"})
	snap = store.Snapshot()
	require.NotNil(t, snap.UserProfile)
	assert.False(t, snap.IsLoading)
	assert.Equal(t, []string{"wallet-9"}, seeder.calls)
	assert.Equal(t, "Green Novice", snap.UserProfile.Level.Title)

	store.HandleWalletState(entity.WalletState{Connected: false, PublicKey: "wallet-9"})
	assert.Nil(t, store.Snapshot().UserProfile)
}

func TestProfileStore_SnapshotIsACopy(t *testing.T) {
	clock := &mutableClock{now: time.Now()}
	store, _ := newConnectedStore(t, 10, clock)

	snap := store.Snapshot()
	snap.UserProfile.XP = 9999
	snap.UserProfile.Achievements = append(snap.UserProfile.Achievements, entity.Achievement{ID: "x"})

	again := store.Snapshot()
	assert.Equal(t, int64(10), again.UserProfile.XP)
	assert.Empty(t, again.UserProfile.Achievements)
}

func TestProfileStore_MutatorsWithoutProfileAreNoOps(t *testing.T) {
	sink := NewNotificationSink()
	store := NewProfileStore(sink, &stubSeeder{profile: baseProfile(0)})

	assert.NoError(t, store.UpdateProfile(entity.ProfileUpdate{Karma: ptr(int64(5))}))
	assert.NoError(t, store.IncreaseXp(500))
	store.AddAchievement(entity.Achievement{ID: "a", Title: "A"})
	store.AddBadge(entity.EcoBadge{ID: "b", Name: "B"})
	store.UpdateStreak()
	assert.NoError(t, store.RecordTaskCompletion(10))

	assert.Nil(t, store.Snapshot().UserProfile)
	assert.Equal(t, 0, sink.UnreadCount())
}

func TestProfileStore_IncreaseXp(t *testing.T) {
	tests := []struct {
		name          string
		startXP       int64
		amount        int64
		wantLevel     int
		notifications int
		wantMessage   string
	}{
		{"within tier", 10, 40, 1, 0, ""},
		{"crosses into Green Novice", 90, 20, 2, 1, "Congratulations! You've reached level 2: Green Novice"},
		{"exact boundary", 99, 1, 2, 1, "Congratulations! You've reached level 2: Green Novice"},
		{"skips several tiers with one notification", 50, 1500, 5, 1, "Congratulations! You've reached level 5: Green Guardian"},
		{"zero amount", 100, 0, 2, 0, ""},
		{"into the unbounded tier", 31999, 1, 10, 1, "Congratulations! You've reached level 10: Legendary EcoWarrior"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &mutableClock{now: time.Now()}
			store, sink := newConnectedStore(t, tt.startXP, clock)

			require.NoError(t, store.IncreaseXp(tt.amount))

			profile := store.Snapshot().UserProfile
			assert.Equal(t, tt.startXP+tt.amount, profile.XP)
			assert.Equal(t, tt.wantLevel, profile.Level.Level)

			snap := sink.Snapshot()
			require.Len(t, snap.Notifications, tt.notifications)
			if tt.notifications > 0 {
				assert.Equal(t, "Level Up!", snap.Notifications[0].Title)
				assert.Equal(t, tt.wantMessage, snap.Notifications[0].Message)
				assert.Equal(t, entity.NotificationTypeAchievement, snap.Notifications[0].Type)
			}
		})
	}
}

func TestProfileStore_IncreaseXpRejectsNegative(t *testing.T) {
	clock := &mutableClock{now: time.Now()}
	store, sink := newConnectedStore(t, 300, clock)

	err := store.IncreaseXp(-250)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	assert.Equal(t, int64(300), store.Snapshot().UserProfile.XP)
	assert.Equal(t, 0, sink.UnreadCount())
}

func TestProfileStore_IncreaseXpRejectsOverflow(t *testing.T) {
	tests := []struct {
		name    string
		startXP int64
		amount  int64
	}{
		{"max int64 on top of seeded xp", 780, math.MaxInt64},
		{"one past the ceiling", math.MaxInt64 - 10, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &mutableClock{now: time.Now()}
			store, sink := newConnectedStore(t, tt.startXP, clock)
			before := store.Snapshot().UserProfile

			err := store.IncreaseXp(tt.amount)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))

			after := store.Snapshot().UserProfile
			assert.Equal(t, before, after)
			assert.GreaterOrEqual(t, after.XP, int64(0))
			assert.Equal(t, 0, sink.UnreadCount())
		})
	}
}

func TestProfileStore_IncreaseXpUpToCeiling(t *testing.T) {
	clock := &mutableClock{now: time.Now()}
	store, sink := newConnectedStore(t, 780, clock)

	require.NoError(t, store.IncreaseXp(math.MaxInt64-780))

	profile := store.Snapshot().UserProfile
	assert.Equal(t, int64(math.MaxInt64), profile.XP)
	assert.Equal(t, 10, profile.Level.Level)
	assert.Equal(t, 1, sink.UnreadCount())
}

func TestProfileStore_AddAchievementIsIdempotentById(t *testing.T) {
	clock := &mutableClock{now: time.Now()}
	store, sink := newConnectedStore(t, 0, clock)

	store.AddAchievement(entity.Achievement{ID: "recycler", Title: "Recycler", Description: "Recycle 5 items", Progress: 1, Target: 5})
	store.AddAchievement(entity.Achievement{ID: "recycler", Title: "Recycler", Description: "Recycle 5 items", Progress: 4, Target: 5})

	achievements := store.Snapshot().UserProfile.Achievements
	require.Len(t, achievements, 1)
	assert.Equal(t, 4, achievements[0].Progress)

	snap := sink.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "New Achievement Unlocked!", snap.Notifications[0].Title)
	assert.Equal(t, "Recycler: Recycle 5 items", snap.Notifications[0].Message)
	assert.Equal(t, entity.NotificationTypeAchievement, snap.Notifications[0].Type)
}

func TestProfileStore_AddAchievementKeepsOrder(t *testing.T) {
	clock := &mutableClock{now: time.Now()}
	store, _ := newConnectedStore(t, 0, clock)

	store.AddAchievement(entity.Achievement{ID: "a", Title: "A"})
	store.AddAchievement(entity.Achievement{ID: "b", Title: "B"})
	store.AddAchievement(entity.Achievement{ID: "a", Title: "A2"})

	achievements := store.Snapshot().UserProfile.Achievements
	require.Len(t, achievements, 2)
	assert.Equal(t, "A2", achievements[0].Title)
	assert.Equal(t, "B", achievements[1].Title)
}

func TestProfileStore_AddBadgeIsIdempotent(t *testing.T) {
	clock := &mutableClock{now: time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)}
	store, sink := newConnectedStore(t, 0, clock)

	store.AddBadge(entity.EcoBadge{ID: "tree-hugger", Name: "Tree Hugger", Description: "Planted 10 trees"})
	store.AddBadge(entity.EcoBadge{ID: "tree-hugger", Name: "Renamed", Description: "ignored"})

	badges := store.Snapshot().UserProfile.Badges
	require.Len(t, badges, 1)
	assert.Equal(t, "Tree Hugger", badges[0].Name)
	assert.Equal(t, clock.now, badges[0].EarnedAt)

	snap := sink.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "New Badge Earned!", snap.Notifications[0].Title)
	assert.Equal(t, "Tree Hugger: Planted 10 trees", snap.Notifications[0].Message)
	assert.Equal(t, entity.NotificationTypeReward, snap.Notifications[0].Type)
}

func TestProfileStore_UpdateProfile(t *testing.T) {
	clock := &mutableClock{now: time.Now()}
	store, sink := newConnectedStore(t, 0, clock)

	err := store.UpdateProfile(entity.ProfileUpdate{
		Username: ptr("LeafLover"),
		Karma:    ptr(int64(12)),
		XP:       ptr(int64(600)),
		Location: &entity.Location{City: ptr("Lisbon")},
	})
	require.NoError(t, err)

	profile := store.Snapshot().UserProfile
	assert.Equal(t, "LeafLover", *profile.Username)
	assert.Equal(t, int64(12), profile.Karma)
	assert.Equal(t, int64(600), profile.XP)
	assert.Equal(t, 4, profile.Level.Level, "level follows xp set through an update")
	assert.Equal(t, "Lisbon", *profile.Location.City)
	assert.Nil(t, profile.Location.Country)
	assert.Equal(t, float64(100), profile.TotalGreenTokens, "unset fields are untouched")
	assert.Equal(t, 0, sink.UnreadCount(), "updates never notify")
}

func TestProfileStore_UpdateProfileValidation(t *testing.T) {
	tests := []struct {
		name   string
		update entity.ProfileUpdate
		code   string
	}{
		{"negative karma", entity.ProfileUpdate{Karma: ptr(int64(-1))}, apperrors.CodeValidation},
		{"negative tokens", entity.ProfileUpdate{StakingGreenTokens: ptr(-3.5)}, apperrors.CodeValidation},
		{"bad avatar url", entity.ProfileUpdate{Avatar: ptr("not a url")}, apperrors.CodeValidation},
		{"available above total", entity.ProfileUpdate{AvailableGreenTokens: ptr(150.0)}, apperrors.CodeBadRequest},
		{"total below available", entity.ProfileUpdate{TotalGreenTokens: ptr(50.0)}, apperrors.CodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &mutableClock{now: time.Now()}
			store, _ := newConnectedStore(t, 0, clock)
			before := store.Snapshot().UserProfile

			err := store.UpdateProfile(tt.update)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.code), "got %v", err)
			assert.Equal(t, before, store.Snapshot().UserProfile)
		})
	}
}

func TestProfileStore_UpdateProfileRaisingBothBalances(t *testing.T) {
	clock := &mutableClock{now: time.Now()}
	store, _ := newConnectedStore(t, 0, clock)

	require.NoError(t, store.UpdateProfile(entity.ProfileUpdate{
		TotalGreenTokens:     ptr(500.0),
		AvailableGreenTokens: ptr(450.0),
	}))
	profile := store.Snapshot().UserProfile
	assert.Equal(t, 500.0, profile.TotalGreenTokens)
	assert.Equal(t, 450.0, profile.AvailableGreenTokens)
}

func TestProfileStore_UpdateStreak(t *testing.T) {
	today := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	at := func(d time.Time) *time.Time { return &d }

	tests := []struct {
		name         string
		streak       entity.Streak
		wantCurrent  int
		wantLongest  int
		wantTitles   []string
		wantLastDate time.Time
	}{
		{
			name:         "first activity",
			streak:       entity.Streak{},
			wantCurrent:  1,
			wantLongest:  1,
			wantLastDate: today,
		},
		{
			name:         "same day is idempotent",
			streak:       entity.Streak{Current: 4, Longest: 6, LastActivity: at(today.Add(-9 * time.Hour))},
			wantCurrent:  4,
			wantLongest:  6,
			wantLastDate: today.Add(-9 * time.Hour),
		},
		{
			name:         "yesterday continues",
			streak:       entity.Streak{Current: 2, Longest: 5, LastActivity: at(today.AddDate(0, 0, -1))},
			wantCurrent:  3,
			wantLongest:  5,
			wantLastDate: today,
		},
		{
			name:         "yesterday late evening counts as yesterday",
			streak:       entity.Streak{Current: 2, Longest: 2, LastActivity: at(time.Date(2026, 6, 14, 23, 59, 0, 0, time.UTC))},
			wantCurrent:  3,
			wantLongest:  3,
			wantLastDate: today,
		},
		{
			name:         "sixth to seventh day announces a week",
			streak:       entity.Streak{Current: 6, Longest: 6, LastActivity: at(today.AddDate(0, 0, -1))},
			wantCurrent:  7,
			wantLongest:  7,
			wantTitles:   []string{"One Week Streak!"},
			wantLastDate: today,
		},
		{
			name:         "twenty ninth to thirtieth day announces a month",
			streak:       entity.Streak{Current: 29, Longest: 40, LastActivity: at(today.AddDate(0, 0, -1))},
			wantCurrent:  30,
			wantLongest:  40,
			wantTitles:   []string{"One Month Streak!"},
			wantLastDate: today,
		},
		{
			name:         "eighth day is silent",
			streak:       entity.Streak{Current: 7, Longest: 7, LastActivity: at(today.AddDate(0, 0, -1))},
			wantCurrent:  8,
			wantLongest:  8,
			wantLastDate: today,
		},
		{
			name:         "gap resets and keeps longest",
			streak:       entity.Streak{Current: 5, Longest: 9, LastActivity: at(today.AddDate(0, 0, -3))},
			wantCurrent:  1,
			wantLongest:  9,
			wantTitles:   []string{"Streak Reset"},
			wantLastDate: today,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &mutableClock{now: today}
			sink := NewNotificationSink(WithNotificationClock(clock.Now))
			seeder := &stubSeeder{profile: func(now time.Time) *entity.UserProfile {
				return &entity.UserProfile{Streak: tt.streak}
			}}
			store := NewProfileStore(sink, seeder, WithProfileClock(clock.Now))
			store.HandleWalletState(entity.WalletState{Connected: true, PublicKey: "wallet-1"})

			store.UpdateStreak()

			streak := store.Snapshot().UserProfile.Streak
			assert.Equal(t, tt.wantCurrent, streak.Current)
			assert.Equal(t, tt.wantLongest, streak.Longest)
			assert.GreaterOrEqual(t, streak.Longest, streak.Current)
			require.NotNil(t, streak.LastActivity)
			assert.True(t, tt.wantLastDate.Equal(*streak.LastActivity))

			var titles []string
			for _, n := range sink.Snapshot().Notifications {
				titles = append(titles, n.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestProfileStore_UpdateStreakResetIsSystemNotification(t *testing.T) {
	today := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	lastWeek := today.AddDate(0, 0, -7)
	clock := &mutableClock{now: today}
	sink := NewNotificationSink(WithNotificationClock(clock.Now))
	store := NewProfileStore(sink, &stubSeeder{profile: func(time.Time) *entity.UserProfile {
		return &entity.UserProfile{Streak: entity.Streak{Current: 3, Longest: 3, LastActivity: &lastWeek}}
	}}, WithProfileClock(clock.Now))
	store.HandleWalletState(entity.WalletState{Connected: true, PublicKey: "w"})

	store.UpdateStreak()

	snap := sink.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, entity.NotificationTypeSystem, snap.Notifications[0].Type)
}

func TestProfileStore_UpdateStreakTwiceSameDay(t *testing.T) {
	clock := &mutableClock{now: time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)}
	store, _ := newConnectedStore(t, 0, clock)

	store.UpdateStreak()
	first := store.Snapshot().UserProfile.Streak

	clock.now = clock.now.Add(10 * time.Hour)
	store.UpdateStreak()
	second := store.Snapshot().UserProfile.Streak

	assert.Equal(t, first, second)
}

func TestProfileStore_UpdateStreakAcrossMonthBoundary(t *testing.T) {
	clock := &mutableClock{now: time.Date(2026, 2, 28, 21, 0, 0, 0, time.UTC)}
	store, _ := newConnectedStore(t, 0, clock)

	store.UpdateStreak()
	clock.now = time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	store.UpdateStreak()

	assert.Equal(t, 2, store.Snapshot().UserProfile.Streak.Current)
}

func TestProfileStore_RecordTaskCompletion(t *testing.T) {
	clock := &mutableClock{now: time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)}
	store, sink := newConnectedStore(t, 90, clock)

	require.NoError(t, store.RecordTaskCompletion(25))

	profile := store.Snapshot().UserProfile
	assert.Equal(t, int64(1), profile.TasksCompleted)
	assert.Equal(t, 1, profile.Streak.Current)
	assert.Equal(t, int64(115), profile.XP)

	snap := sink.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "Level Up!", snap.Notifications[0].Title)

	assert.Error(t, store.RecordTaskCompletion(-1))
	assert.Equal(t, int64(1), store.Snapshot().UserProfile.TasksCompleted)
}

func TestProfileStore_RecordTaskCompletionRejectsOverflowUntouched(t *testing.T) {
	clock := &mutableClock{now: time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)}
	store, sink := newConnectedStore(t, 780, clock)
	before := store.Snapshot().UserProfile

	err := store.RecordTaskCompletion(math.MaxInt64)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))

	after := store.Snapshot().UserProfile
	assert.Equal(t, before, after, "counter, streak and xp are unchanged")
	assert.Equal(t, int64(0), after.TasksCompleted)
	assert.Nil(t, after.Streak.LastActivity)
	assert.Equal(t, 0, sink.UnreadCount())
}

func TestProfileStore_PanicsWhenUninitialized(t *testing.T) {
	var nilStore *ProfileStore
	assert.Panics(t, func() { nilStore.Snapshot() })

	var zero ProfileStore
	assert.Panics(t, func() { _ = zero.IncreaseXp(1) })

	assert.Panics(t, func() { NewProfileStore(nil, &stubSeeder{}) })
	assert.Panics(t, func() { NewProfileStore(NewNotificationSink(), nil) })
}

func ptr[T any](v T) *T {
	return &v
}
