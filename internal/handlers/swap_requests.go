package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/sbilibin2017/skillswap/internal/services"
)

// SwapRequestManager runs the swap-request lifecycle for the caller.
type SwapRequestManager interface {
	List(ctx context.Context, userID int64, role string) ([]models.SwapRequestDB, error)
	Get(ctx context.Context, userID, id int64) (*models.SwapRequestDB, error)
	Create(ctx context.Context, senderID int64, in services.CreateSwapRequestInput) (*models.SwapRequestDB, error)
	UpdateStatus(ctx context.Context, userID, id int64, status string) (*models.SwapRequestDB, error)
}

// CreateSwapRequestRequest represents the JSON body of a new swap request
// swagger:model CreateSwapRequestRequest
type CreateSwapRequestRequest struct {
	// required: true
	ReceiverID      int64  `json:"receiver_id"`
	SenderSkillID   *int64 `json:"sender_skill_id"`
	ReceiverSkillID *int64 `json:"receiver_skill_id"`
	Message         string `json:"message"`
}

// UpdateSwapRequestRequest carries the new status
// swagger:model UpdateSwapRequestRequest
type UpdateSwapRequestRequest struct {
	// accepted or rejected
	// required: true
	Status string `json:"status"`
}

// PartyResponse identifies a sender or receiver
// swagger:model PartyResponse
type PartyResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// SwapRequestResponse represents a swap request
// swagger:model SwapRequestResponse
type SwapRequestResponse struct {
	ID            int64         `json:"id"`
	Sender        PartyResponse `json:"sender"`
	Receiver      PartyResponse `json:"receiver"`
	SenderSkill   *models.Skill `json:"sender_skill"`
	ReceiverSkill *models.Skill `json:"receiver_skill"`
	Message       string        `json:"message"`
	Status        string        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func skillRef(id *int64, name *string) *models.Skill {
	if id == nil {
		return nil
	}
	skill := &models.Skill{ID: *id}
	if name != nil {
		skill.Name = *name
	}
	return skill
}

func newSwapRequestResponse(swap *models.SwapRequestDB) SwapRequestResponse {
	return SwapRequestResponse{
		ID:            swap.ID,
		Sender:        PartyResponse{ID: swap.SenderID, Username: swap.SenderUsername},
		Receiver:      PartyResponse{ID: swap.ReceiverID, Username: swap.ReceiverUsername},
		SenderSkill:   skillRef(swap.SenderSkillID, swap.SenderSkillName),
		ReceiverSkill: skillRef(swap.ReceiverSkillID, swap.ReceiverSkillName),
		Message:       swap.Message,
		Status:        swap.Status,
		CreatedAt:     swap.CreatedAt,
		UpdatedAt:     swap.UpdatedAt,
	}
}

// NewListSwapRequestsHandler returns an HTTP handler listing the caller's
// requests in role: models.SwapRoleAny, models.SwapRoleSender or models.SwapRoleReceiver.
// @Summary List swap requests
// @Description /swap-requests lists both directions, /sent and /received one each. Newest first.
// @Tags swap-requests
// @Produce json
// @Success 200 {array} handlers.SwapRequestResponse
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /swap-requests [get]
// @Router /swap-requests/sent [get]
// @Router /swap-requests/received [get]
func NewListSwapRequestsHandler(svc SwapRequestManager, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		swaps, err := svc.List(r.Context(), session.UserID, role)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]SwapRequestResponse, 0, len(swaps))
		for i := range swaps {
			resp = append(resp, newSwapRequestResponse(&swaps[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// NewGetSwapRequestHandler returns an HTTP handler for one swap request.
// @Summary Get swap request
// @Tags swap-requests
// @Produce json
// @Param id path int true "Swap request ID"
// @Success 200 {object} handlers.SwapRequestResponse
// @Failure 404 {object} handlers.ErrorResponse "Unknown or not a party"
// @Router /swap-requests/{id} [get]
func NewGetSwapRequestHandler(svc SwapRequestManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		swap, err := svc.Get(r.Context(), session.UserID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSwapRequestResponse(swap))
	}
}

// NewCreateSwapRequestHandler returns an HTTP handler sending a swap request.
// @Summary Send swap request
// @Tags swap-requests
// @Accept json
// @Produce json
// @Param request body handlers.CreateSwapRequestRequest true "Swap request"
// @Success 201 {object} handlers.SwapRequestResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid receiver or skill, self swap or duplicate pending request"
// @Router /swap-requests [post]
func NewCreateSwapRequestHandler(svc SwapRequestManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		var req CreateSwapRequestRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		swap, err := svc.Create(r.Context(), session.UserID, services.CreateSwapRequestInput{
			ReceiverID:      req.ReceiverID,
			SenderSkillID:   req.SenderSkillID,
			ReceiverSkillID: req.ReceiverSkillID,
			Message:         req.Message,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newSwapRequestResponse(swap))
	}
}

// NewUpdateSwapRequestHandler returns an HTTP handler accepting or rejecting a swap request.
// @Summary Accept or reject
// @Description Only the receiver may change a pending request; other fields in the body are ignored.
// @Tags swap-requests
// @Accept json
// @Produce json
// @Param id path int true "Swap request ID"
// @Param request body handlers.UpdateSwapRequestRequest true "New status"
// @Success 200 {object} handlers.SwapRequestResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid status, not the receiver or already finalized"
// @Failure 404 {object} handlers.ErrorResponse "Unknown or not a party"
// @Router /swap-requests/{id} [put]
func NewUpdateSwapRequestHandler(svc SwapRequestManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var req UpdateSwapRequestRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		swap, err := svc.UpdateStatus(r.Context(), session.UserID, id, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSwapRequestResponse(swap))
	}
}
