package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/skillswap/internal/models"
)

// SkillCatalog serves the global skill catalog.
type SkillCatalog interface {
	List(ctx context.Context, search string) ([]models.Skill, error)
	Get(ctx context.Context, id int64) (*models.Skill, error)
	Create(ctx context.Context, name string) (*models.Skill, error)
}

// SkillRequest represents the JSON body for a new skill
// swagger:model SkillRequest
type SkillRequest struct {
	// required: true
	// default: Python
	Name string `json:"name"`
}

// NewListSkillsHandler returns an HTTP handler listing the catalog.
// @Summary List skills
// @Tags skills
// @Produce json
// @Param search query string false "Name substring"
// @Success 200 {array} models.Skill
// @Router /skills [get]
func NewListSkillsHandler(svc SkillCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills, err := svc.List(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(skills))
	}
}

// NewGetSkillHandler returns an HTTP handler for one skill.
// @Summary Get skill
// @Tags skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {object} models.Skill
// @Failure 404 {object} handlers.ErrorResponse "Unknown skill"
// @Router /skills/{id} [get]
func NewGetSkillHandler(svc SkillCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		skill, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, skill)
	}
}

// NewCreateSkillHandler returns an HTTP handler adding a skill to the catalog.
// @Summary Create skill
// @Tags skills
// @Accept json
// @Produce json
// @Param skill body handlers.SkillRequest true "Skill"
// @Success 201 {object} models.Skill
// @Failure 400 {object} handlers.ErrorResponse "Empty or duplicate name"
// @Router /skills [post]
func NewCreateSkillHandler(svc SkillCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SkillRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		skill, err := svc.Create(r.Context(), req.Name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, skill)
	}
}
