package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/skillswap/internal/models"
)

// ProfileService reads and updates the caller's own profile.
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.UserProfile, error)
}

// UserFinder serves account discovery.
type UserFinder interface {
	List(ctx context.Context, callerID int64) ([]models.UserDB, error)
	Search(ctx context.Context, filter models.UserSearchFilter) ([]models.UserDB, error)
	GetPublicProfile(ctx context.Context, callerID, id int64) (*models.UserProfile, error)
	ListPublicSkills(ctx context.Context, callerID, id int64) ([]models.UserSkillDB, error)
}

// ProfileUpdateRequest holds the editable profile fields. Absent fields are
// left unchanged; any other field is ignored.
// swagger:model ProfileUpdateRequest
type ProfileUpdateRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Location     *string `json:"location"`
	Availability *string `json:"availability"`
	ProfilePhoto *string `json:"profile_photo"`
	IsPublic     *bool   `json:"is_public"`
	Bio          *string `json:"bio"`
}

// NewGetProfileHandler returns an HTTP handler for the caller's profile.
// @Summary Own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.UserProfile "Profile with offered and wanted skills"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /users/profile [get]
func NewGetProfileHandler(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		profile, err := svc.GetProfile(r.Context(), session.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// NewUpdateProfileHandler returns an HTTP handler updating the caller's profile.
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param profile body handlers.ProfileUpdateRequest true "Fields to change"
// @Success 200 {object} models.UserProfile "Updated profile"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /users/profile [put]
func NewUpdateProfileHandler(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		var req ProfileUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), session.UserID, models.ProfileUpdate{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Location:     req.Location,
			Availability: req.Availability,
			ProfilePhoto: req.ProfilePhoto,
			IsPublic:     req.IsPublic,
			Bio:          req.Bio,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// NewListUsersHandler returns an HTTP handler listing public accounts.
// @Summary Discover users
// @Description Public accounts other than the caller, at most 20.
// @Tags users
// @Produce json
// @Success 200 {array} models.UserDB
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /users [get]
func NewListUsersHandler(svc UserFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		users, err := svc.List(r.Context(), session.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(users))
	}
}

// NewSearchUsersHandler returns an HTTP handler searching public accounts.
// @Summary Search users
// @Description Filters combine with AND; q matches username, names or bio.
// @Tags users
// @Produce json
// @Param q query string false "Text to match"
// @Param location query string false "Location substring"
// @Param skill query string false "Skill name substring"
// @Success 200 {array} models.UserDB
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /users/search [get]
func NewSearchUsersHandler(svc UserFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()
		users, err := svc.Search(r.Context(), models.UserSearchFilter{
			CallerID: session.UserID,
			Query:    query.Get("q"),
			Location: query.Get("location"),
			Skill:    query.Get("skill"),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(users))
	}
}

// NewGetUserHandler returns an HTTP handler for one public profile.
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserProfile
// @Failure 404 {object} handlers.ErrorResponse "Unknown or private account"
// @Router /users/{id} [get]
func NewGetUserHandler(svc UserFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		profile, err := svc.GetPublicProfile(r.Context(), session.UserID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// NewGetUserSkillsHandler returns an HTTP handler listing the skill
// associations of one public account.
// @Summary List user skills
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.UserSkillDB
// @Failure 404 {object} handlers.ErrorResponse "Unknown or private account"
// @Router /users/{id}/skills [get]
func NewGetUserSkillsHandler(svc UserFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		userSkills, err := svc.ListPublicSkills(r.Context(), session.UserID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(userSkills))
	}
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
