package handler

import (
	"github.com/labstack/echo/v4"

	"greentask/internal/domain/entity"
	"greentask/internal/usecase"
	"greentask/pkg/response"
	"greentask/pkg/utils"
)

type ProfileHandler struct {
	sessionUseCase *usecase.SessionUseCase
}

func NewProfileHandler(sessionUseCase *usecase.SessionUseCase) *ProfileHandler {
	return &ProfileHandler{
		sessionUseCase: sessionUseCase,
	}
}

type profileResponse struct {
	usecase.ProfileSnapshot
	LevelProgress int `json:"levelProgress"`
}

type xpRequest struct {
	Amount int64 `json:"amount" validate:"min=0"`
}

type completeTaskRequest struct {
	XP int64 `json:"xp" validate:"min=0"`
}

func newProfileResponse(snap usecase.ProfileSnapshot) profileResponse {
	resp := profileResponse{ProfileSnapshot: snap}
	if p := snap.UserProfile; p != nil {
		resp.LevelProgress = p.Level.Progress(p.XP)
	}
	return resp
}

// withProfile applies fn to the caller's profile store and responds with the
// resulting snapshot.
func (h *ProfileHandler) withProfile(c echo.Context, fn func(store *usecase.ProfileStore) error) error {
	var snap usecase.ProfileSnapshot
	err := withSession(c, h.sessionUseCase, func(s *usecase.Session) error {
		if err := fn(s.Profile); err != nil {
			return err
		}
		snap = s.Profile.Snapshot()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, newProfileResponse(snap))
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	return h.withProfile(c, func(*usecase.ProfileStore) error { return nil })
}

func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req entity.ProfileUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	return h.withProfile(c, func(store *usecase.ProfileStore) error {
		return store.UpdateProfile(req)
	})
}

func (h *ProfileHandler) IncreaseXp(c echo.Context) error {
	var req xpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	return h.withProfile(c, func(store *usecase.ProfileStore) error {
		return store.IncreaseXp(req.Amount)
	})
}

func (h *ProfileHandler) AddAchievement(c echo.Context) error {
	var req entity.Achievement
	if err := c.Bind(&req); err != nil {
		return fail(c, err)
	}
	if req.ID == "" {
		req.ID = utils.CatalogID(req.Title)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}
	return h.withProfile(c, func(store *usecase.ProfileStore) error {
		store.AddAchievement(req)
		return nil
	})
}

func (h *ProfileHandler) AddBadge(c echo.Context) error {
	var req entity.EcoBadge
	if err := c.Bind(&req); err != nil {
		return fail(c, err)
	}
	if req.ID == "" {
		req.ID = utils.CatalogID(req.Name)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}
	return h.withProfile(c, func(store *usecase.ProfileStore) error {
		store.AddBadge(req)
		return nil
	})
}

func (h *ProfileHandler) UpdateStreak(c echo.Context) error {
	return h.withProfile(c, func(store *usecase.ProfileStore) error {
		store.UpdateStreak()
		return nil
	})
}

func (h *ProfileHandler) CompleteTask(c echo.Context) error {
	var req completeTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	return h.withProfile(c, func(store *usecase.ProfileStore) error {
		return store.RecordTaskCompletion(req.XP)
	})
}

func (h *ProfileHandler) GetLevels(c echo.Context) error {
	return response.Success(c, entity.Levels)
}
