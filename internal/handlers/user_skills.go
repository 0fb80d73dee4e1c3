package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/skillswap/internal/models"
)

// UserSkillManager manages the caller's offered and wanted skills.
type UserSkillManager interface {
	List(ctx context.Context, userID int64) ([]models.UserSkillDB, error)
	Get(ctx context.Context, userID, id int64) (*models.UserSkillDB, error)
	Create(ctx context.Context, userID int64, in models.UserSkillInput) (*models.UserSkillDB, error)
	Update(ctx context.Context, userID, id int64, in models.UserSkillInput) (*models.UserSkillDB, error)
	Delete(ctx context.Context, userID, id int64) error
	BulkUpsert(ctx context.Context, userID int64, items []models.UserSkillInput) (*models.BulkResult, error)
}

// BulkUserSkillsRequest represents the JSON body of a bulk upsert
// swagger:model BulkUserSkillsRequest
type BulkUserSkillsRequest struct {
	Skills []models.UserSkillInput `json:"skills"`
}

// NewListUserSkillsHandler returns an HTTP handler listing the caller's skills.
// @Summary List own skills
// @Tags user-skills
// @Produce json
// @Success 200 {array} models.UserSkillDB
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /user-skills [get]
func NewListUserSkillsHandler(svc UserSkillManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		userSkills, err := svc.List(r.Context(), session.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(userSkills))
	}
}

// NewGetUserSkillHandler returns an HTTP handler for one of the caller's skills.
// @Summary Get own skill
// @Tags user-skills
// @Produce json
// @Param id path int true "User skill ID"
// @Success 200 {object} models.UserSkillDB
// @Failure 404 {object} handlers.ErrorResponse "Unknown or not owned"
// @Router /user-skills/{id} [get]
func NewGetUserSkillHandler(svc UserSkillManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		userSkill, err := svc.Get(r.Context(), session.UserID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, userSkill)
	}
}

// NewCreateUserSkillHandler returns an HTTP handler marking a skill as offered or wanted.
// @Summary Add own skill
// @Tags user-skills
// @Accept json
// @Produce json
// @Param userSkill body models.UserSkillInput true "Skill and direction"
// @Success 201 {object} models.UserSkillDB
// @Failure 400 {object} handlers.ErrorResponse "Unknown skill or already marked"
// @Router /user-skills [post]
func NewCreateUserSkillHandler(svc UserSkillManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		var req models.UserSkillInput
		if !decodeJSON(w, r, &req) {
			return
		}

		userSkill, err := svc.Create(r.Context(), session.UserID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, userSkill)
	}
}

// NewUpdateUserSkillHandler returns an HTTP handler changing one of the caller's skills.
// @Summary Update own skill
// @Tags user-skills
// @Accept json
// @Produce json
// @Param id path int true "User skill ID"
// @Param userSkill body models.UserSkillInput true "Skill and direction"
// @Success 200 {object} models.UserSkillDB
// @Failure 400 {object} handlers.ErrorResponse "Unknown skill or already marked"
// @Failure 404 {object} handlers.ErrorResponse "Unknown or not owned"
// @Router /user-skills/{id} [put]
func NewUpdateUserSkillHandler(svc UserSkillManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var req models.UserSkillInput
		if !decodeJSON(w, r, &req) {
			return
		}

		userSkill, err := svc.Update(r.Context(), session.UserID, id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, userSkill)
	}
}

// NewDeleteUserSkillHandler returns an HTTP handler removing one of the caller's skills.
// @Summary Delete own skill
// @Tags user-skills
// @Param id path int true "User skill ID"
// @Success 204
// @Failure 404 {object} handlers.ErrorResponse "Unknown or not owned"
// @Router /user-skills/{id} [delete]
func NewDeleteUserSkillHandler(svc UserSkillManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), session.UserID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// NewBulkUserSkillsHandler returns an HTTP handler upserting many skills at once.
// @Summary Bulk upsert own skills
// @Description Unknown skills are reported per item; the rest of the batch is applied.
// @Tags user-skills
// @Accept json
// @Produce json
// @Param request body handlers.BulkUserSkillsRequest true "Skills"
// @Success 200 {object} models.BulkResult
// @Failure 400 {object} handlers.ErrorResponse "Empty list"
// @Router /user-skills/bulk [post]
func NewBulkUserSkillsHandler(svc UserSkillManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		var req BulkUserSkillsRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		result, err := svc.BulkUpsert(r.Context(), session.UserID, req.Skills)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
