package entity

import (
	"time"
)

type UserProfile struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`

	TotalGreenTokens     float64 `json:"totalGreenTokens"`
	AvailableGreenTokens float64 `json:"availableGreenTokens"`
	StakingGreenTokens   float64 `json:"stakingGreenTokens"`

	EcoImpactScore int64     `json:"ecoImpactScore"`
	Karma          int64     `json:"karma"`
	XP             int64     `json:"xp"`
	Level          UserLevel `json:"level"`

	Achievements   []Achievement `json:"achievements"`
	Badges         []EcoBadge    `json:"badges"`
	TasksCompleted int64         `json:"tasksCompleted"`
	Streak         Streak        `json:"streak"`
	JoinedAt       time.Time     `json:"joinedAt"`
	Location       Location      `json:"location"`
}

type Streak struct {
	Current      int        `json:"current"`
	Longest      int        `json:"longest"`
	LastActivity *time.Time `json:"lastActivity"`
}

type Location struct {
	City    *string `json:"city"`
	Country *string `json:"country"`
}

// ProfileUpdate carries the fields a caller may merge into a profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Username *string `json:"username" validate:"omitempty,max=32"`
	Bio      *string `json:"bio" validate:"omitempty,max=280"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`

	TotalGreenTokens     *float64 `json:"totalGreenTokens" validate:"omitempty,min=0"`
	AvailableGreenTokens *float64 `json:"availableGreenTokens" validate:"omitempty,min=0"`
	StakingGreenTokens   *float64 `json:"stakingGreenTokens" validate:"omitempty,min=0"`

	EcoImpactScore *int64 `json:"ecoImpactScore" validate:"omitempty,min=0"`
	Karma          *int64 `json:"karma" validate:"omitempty,min=0"`
	XP             *int64 `json:"xp" validate:"omitempty,min=0"`
	TasksCompleted *int64 `json:"tasksCompleted" validate:"omitempty,min=0"`

	Location *Location `json:"location"`
}

// Clone returns a copy that shares no mutable state with p.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Username = cloneString(p.Username)
	c.Bio = cloneString(p.Bio)
	c.Avatar = cloneString(p.Avatar)
	c.Location = Location{City: cloneString(p.Location.City), Country: cloneString(p.Location.Country)}
	c.Streak.LastActivity = cloneTime(p.Streak.LastActivity)

	c.Achievements = make([]Achievement, len(p.Achievements))
	for i, a := range p.Achievements {
		a.UnlockedAt = cloneTime(a.UnlockedAt)
		c.Achievements[i] = a
	}
	c.Badges = make([]EcoBadge, len(p.Badges))
	copy(c.Badges, p.Badges)
	return &c
}

// Apply merges the non-nil fields of u into p.
func (p *UserProfile) Apply(u ProfileUpdate) {
	if u.Username != nil {
		p.Username = cloneString(u.Username)
	}
	if u.Bio != nil {
		p.Bio = cloneString(u.Bio)
	}
	if u.Avatar != nil {
		p.Avatar = cloneString(u.Avatar)
	}
	if u.TotalGreenTokens != nil {
		p.TotalGreenTokens = *u.TotalGreenTokens
	}
	if u.AvailableGreenTokens != nil {
		p.AvailableGreenTokens = *u.AvailableGreenTokens
	}
	if u.StakingGreenTokens != nil {
		p.StakingGreenTokens = *u.StakingGreenTokens
	}
	if u.EcoImpactScore != nil {
		p.EcoImpactScore = *u.EcoImpactScore
	}
	if u.Karma != nil {
		p.Karma = *u.Karma
	}
	if u.XP != nil {
		p.XP = *u.XP
		p.Level = GetUserLevel(p.XP)
	}
	if u.TasksCompleted != nil {
		p.TasksCompleted = *u.TasksCompleted
	}
	if u.Location != nil {
		p.Location = Location{City: cloneString(u.Location.City), Country: cloneString(u.Location.Country)}
	}
}

func (p *UserProfile) AchievementIndex(id string) int {
	for i, a := range p.Achievements {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (p *UserProfile) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
