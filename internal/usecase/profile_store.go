package usecase

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"greentask/internal/domain/entity"
	"greentask/pkg/errors"
)

type ProfileSnapshot struct {
	UserProfile *entity.UserProfile `json:"userProfile"`
	IsLoading   bool                `json:"isLoading"`
}

// ProfileStore owns one wallet session's gamification profile. It is not
// safe for concurrent use; callers serialize access per session.
type ProfileStore struct {
	profile   *entity.UserProfile
	isLoading bool
	notifier  Notifier
	seeder    ProfileSeeder
	validate  *validator.Validate
	clock     func() time.Time
}

type ProfileStoreOption func(*ProfileStore)

func WithProfileClock(clock func() time.Time) ProfileStoreOption {
	return func(s *ProfileStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithProfileValidator(v *validator.Validate) ProfileStoreOption {
	return func(s *ProfileStore) {
		if v != nil {
			s.validate = v
		}
	}
}

func NewProfileStore(notifier Notifier, seeder ProfileSeeder, opts ...ProfileStoreOption) *ProfileStore {
	if notifier == nil {
		panic("usecase: NewProfileStore requires a Notifier")
	}
	if seeder == nil {
		panic("usecase: NewProfileStore requires a ProfileSeeder")
	}
	s := &ProfileStore{
		isLoading: true,
		notifier:  notifier,
		seeder:    seeder,
		validate:  validator.New(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ProfileStore) mustBeReady() {
	if s == nil || s.notifier == nil {
		panic("usecase: ProfileStore used before NewProfileStore")
	}
}

// HandleWalletState seeds a profile when a wallet becomes active and drops
// it otherwise.
func (s *ProfileStore) HandleWalletState(state entity.WalletState) {
	s.mustBeReady()
	if !state.Active() {
		s.profile = nil
		s.isLoading = false
		return
	}
	s.isLoading = true
	profile := s.seeder.Seed(state.PublicKey, s.clock())
	if profile != nil {
		profile.Level = entity.GetUserLevel(profile.XP)
	}
	s.profile = profile
	s.isLoading = false
}

func (s *ProfileStore) Snapshot() ProfileSnapshot {
	s.mustBeReady()
	return ProfileSnapshot{
		UserProfile: s.profile.Clone(),
		IsLoading:   s.isLoading,
	}
}

// UpdateProfile merges the set fields of update. Invalid ranges, or a merge
// that would leave more available tokens than total tokens, are rejected and
// leave the profile unchanged.
func (s *ProfileStore) UpdateProfile(update entity.ProfileUpdate) error {
	s.mustBeReady()
	if s.profile == nil {
		return nil
	}
	if err := s.validate.Struct(update); err != nil {
		return errors.Validation(err)
	}

	merged := s.profile.Clone()
	merged.Apply(update)
	if merged.AvailableGreenTokens > merged.TotalGreenTokens {
		return errors.BadRequest(fmt.Sprintf(
			"available tokens (%g) cannot exceed total tokens (%g)",
			merged.AvailableGreenTokens, merged.TotalGreenTokens), nil)
	}
	s.profile = merged
	return nil
}

// IncreaseXp adds amount to the profile's XP and recomputes the level. A
// single level-up notification is emitted no matter how many tiers the
// increase skips.
func (s *ProfileStore) IncreaseXp(amount int64) error {
	s.mustBeReady()
	if err := s.checkXpAward(amount); err != nil {
		return err
	}
	if s.profile == nil {
		return nil
	}

	previous := s.profile.Level
	s.profile.XP += amount
	s.profile.Level = entity.GetUserLevel(s.profile.XP)

	if s.profile.Level.Level > previous.Level {
		s.notifier.AddNotification(entity.NotificationInput{
			Title:   "Level Up!",
			Message: fmt.Sprintf("Congratulations! You've reached level %d: %s", s.profile.Level.Level, s.profile.Level.Title),
			Type:    entity.NotificationTypeAchievement,
		})
	}
	return nil
}

// AddAchievement replaces an achievement with the same id in place, which is
// how progress updates arrive, or appends and announces a new one.
func (s *ProfileStore) AddAchievement(achievement entity.Achievement) {
	s.mustBeReady()
	if s.profile == nil {
		return
	}

	if i := s.profile.AchievementIndex(achievement.ID); i >= 0 {
		s.profile.Achievements[i] = achievement
		return
	}

	s.profile.Achievements = append(s.profile.Achievements, achievement)
	s.notifier.AddNotification(entity.NotificationInput{
		Title:   "New Achievement Unlocked!",
		Message: fmt.Sprintf("%s: %s", achievement.Title, achievement.Description),
		Type:    entity.NotificationTypeAchievement,
	})
}

// AddBadge appends a badge the profile does not hold yet. Badges are earned
// once; repeats are ignored.
func (s *ProfileStore) AddBadge(badge entity.EcoBadge) {
	s.mustBeReady()
	if s.profile == nil || s.profile.HasBadge(badge.ID) {
		return
	}

	if badge.EarnedAt.IsZero() {
		badge.EarnedAt = s.clock()
	}
	s.profile.Badges = append(s.profile.Badges, badge)
	s.notifier.AddNotification(entity.NotificationInput{
		Title:   "New Badge Earned!",
		Message: fmt.Sprintf("%s: %s", badge.Name, badge.Description),
		Type:    entity.NotificationTypeReward,
	})
}

// UpdateStreak records today's activity. Days are compared as calendar
// dates in the clock's location, not as 24 hour windows.
func (s *ProfileStore) UpdateStreak() {
	s.mustBeReady()
	if s.profile == nil {
		return
	}

	now := s.clock()
	streak := &s.profile.Streak

	if streak.LastActivity == nil {
		streak.Current = 1
		streak.Longest = 1
		streak.LastActivity = &now
		return
	}

	last := streak.LastActivity.In(now.Location())
	switch {
	case sameDay(last, now):
		return
	case sameDay(last, now.AddDate(0, 0, -1)):
		streak.Current++
		if streak.Current > streak.Longest {
			streak.Longest = streak.Current
		}
		streak.LastActivity = &now

		if streak.Current == 7 {
			s.notifier.AddNotification(entity.NotificationInput{
				Title:   "One Week Streak!",
				Message: "You've been active for 7 days in a row. Keep it up!",
				Type:    entity.NotificationTypeAchievement,
			})
		}
		if streak.Current == 30 {
			s.notifier.AddNotification(entity.NotificationInput{
				Title:   "One Month Streak!",
				Message: "Amazing dedication! 30 days of continuous eco-action!",
				Type:    entity.NotificationTypeAchievement,
			})
		}
	default:
		streak.Current = 1
		streak.LastActivity = &now
		s.notifier.AddNotification(entity.NotificationInput{
			Title:   "Streak Reset",
			Message: "Your activity streak has been reset. Start a new one today!",
			Type:    entity.NotificationTypeSystem,
		})
	}
}

// RecordTaskCompletion is the "complete task" flow: it bumps the task
// counter, extends the streak and awards xp.
func (s *ProfileStore) RecordTaskCompletion(xp int64) error {
	s.mustBeReady()
	if err := s.checkXpAward(xp); err != nil {
		return err
	}
	if s.profile == nil {
		return nil
	}
	s.profile.TasksCompleted++
	s.UpdateStreak()
	return s.IncreaseXp(xp)
}

// checkXpAward rejects amounts that are negative or would overflow the
// current xp total.
func (s *ProfileStore) checkXpAward(amount int64) error {
	if amount < 0 {
		return errors.BadRequest("xp amount must not be negative", nil)
	}
	if s.profile != nil && amount > math.MaxInt64-s.profile.XP {
		return errors.BadRequest("xp amount exceeds the maximum xp total", nil)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
