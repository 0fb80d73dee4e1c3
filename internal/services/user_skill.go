package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
)

// UserSkillWriter defines write operations for user-skill associations.
type UserSkillWriter interface {
	Save(ctx context.Context, userID, skillID int64, isOffered bool) (*models.UserSkillDB, error)
	Update(ctx context.Context, id, userID, skillID int64, isOffered bool) (*models.UserSkillDB, error)
	Upsert(ctx context.Context, userID, skillID int64, isOffered bool) (*models.UserSkillDB, bool, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// UserSkillService manages the caller's offered and wanted skills.
//
// Create is a strict insert and fails on an existing (skill, direction) pair;
// BulkUpsert updates such pairs in place.
type UserSkillService struct {
	skills SkillReader
	reader UserSkillReader
	writer UserSkillWriter
}

// NewUserSkillService creates a new UserSkillService instance.
func NewUserSkillService(skills SkillReader, reader UserSkillReader, writer UserSkillWriter) *UserSkillService {
	return &UserSkillService{skills: skills, reader: reader, writer: writer}
}

func direction(isOffered bool) string {
	if isOffered {
		return "offered"
	}
	return "wanted"
}

func duplicateUserSkill(isOffered bool) *ValidationError {
	return &ValidationError{
		Err:    ErrUserSkillAlreadyExists,
		Fields: map[string]string{"skill_id": fmt.Sprintf("you already have this skill marked as %s", direction(isOffered))},
	}
}

func (svc *UserSkillService) requireSkill(ctx context.Context, skillID int64) error {
	skill, err := svc.skills.GetByID(ctx, skillID)
	if err != nil {
		logger.Log.Errorw("failed to get skill", "skill_id", skillID, "err", err)
		return err
	}
	if skill == nil {
		return &ValidationError{
			Err:    ErrSkillDoesNotExist,
			Fields: map[string]string{"skill_id": fmt.Sprintf("skill with id %d does not exist", skillID)},
		}
	}
	return nil
}

// List returns the caller's associations.
func (svc *UserSkillService) List(ctx context.Context, userID int64) ([]models.UserSkillDB, error) {
	userSkills, err := svc.reader.ListByUser(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list user skills", "user_id", userID, "err", err)
		return nil, err
	}
	return userSkills, nil
}

// Get returns one of the caller's associations.
func (svc *UserSkillService) Get(ctx context.Context, userID, id int64) (*models.UserSkillDB, error) {
	userSkill, err := svc.reader.GetByID(ctx, id, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user skill", "user_skill_id", id, "err", err)
		return nil, err
	}
	if userSkill == nil {
		return nil, ErrNotFound
	}
	return userSkill, nil
}

// Create adds an association for the caller.
func (svc *UserSkillService) Create(ctx context.Context, userID int64, in models.UserSkillInput) (*models.UserSkillDB, error) {
	if err := svc.requireSkill(ctx, in.SkillID); err != nil {
		return nil, err
	}

	userSkill, err := svc.writer.Save(ctx, userID, in.SkillID, in.IsOffered)
	if errors.Is(err, models.ErrUniqueViolation) {
		return nil, duplicateUserSkill(in.IsOffered)
	}
	if err != nil {
		logger.Log.Errorw("failed to save user skill", "user_id", userID, "skill_id", in.SkillID, "err", err)
		return nil, err
	}
	return userSkill, nil
}

// Update changes skill and direction of one of the caller's associations.
func (svc *UserSkillService) Update(ctx context.Context, userID, id int64, in models.UserSkillInput) (*models.UserSkillDB, error) {
	if _, err := svc.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := svc.requireSkill(ctx, in.SkillID); err != nil {
		return nil, err
	}

	userSkill, err := svc.writer.Update(ctx, id, userID, in.SkillID, in.IsOffered)
	if errors.Is(err, models.ErrUniqueViolation) {
		return nil, duplicateUserSkill(in.IsOffered)
	}
	if err != nil {
		logger.Log.Errorw("failed to update user skill", "user_skill_id", id, "err", err)
		return nil, err
	}
	if userSkill == nil {
		return nil, ErrNotFound
	}
	return userSkill, nil
}

// Delete removes one of the caller's associations.
func (svc *UserSkillService) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := svc.writer.Delete(ctx, id, userID)
	if err != nil {
		logger.Log.Errorw("failed to delete user skill", "user_skill_id", id, "err", err)
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// BulkUpsert inserts or touches each pair. Pairs naming an unknown skill are
// reported in the result and skipped; the rest of the batch proceeds.
func (svc *UserSkillService) BulkUpsert(ctx context.Context, userID int64, items []models.UserSkillInput) (*models.BulkResult, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Err: ErrInvalidInput, Fields: map[string]string{"skills": "this list may not be empty"}}
	}

	result := &models.BulkResult{
		Created: []models.UserSkillDB{},
		Updated: []models.UserSkillDB{},
		Errors:  []models.BulkItemError{},
	}
	for i, item := range items {
		skill, err := svc.skills.GetByID(ctx, item.SkillID)
		if err != nil {
			logger.Log.Errorw("failed to get skill", "skill_id", item.SkillID, "err", err)
			return nil, err
		}
		if skill == nil {
			result.Errors = append(result.Errors, models.BulkItemError{
				Index:   i,
				SkillID: item.SkillID,
				Error:   fmt.Sprintf("skill with id %d does not exist", item.SkillID),
			})
			continue
		}

		userSkill, created, err := svc.writer.Upsert(ctx, userID, item.SkillID, item.IsOffered)
		if err != nil {
			logger.Log.Errorw("failed to upsert user skill", "user_id", userID, "skill_id", item.SkillID, "err", err)
			return nil, err
		}
		if created {
			result.Created = append(result.Created, *userSkill)
		} else {
			result.Updated = append(result.Updated, *userSkill)
		}
	}

	logger.Log.Infow("user skills upserted",
		"user_id", userID,
		"created", len(result.Created),
		"updated", len(result.Updated),
		"skipped", len(result.Errors),
	)
	return result, nil
}
