package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
)

const maxSkillNameLength = 100

// DefaultSkills seeds an empty catalog.
var DefaultSkills = []string{
	"Programming",
	"Web Development",
	"Mobile Development",
	"Data Science",
	"Machine Learning",
	"Graphic Design",
	"UI/UX Design",
	"Digital Marketing",
	"Content Writing",
	"Video Editing",
	"Photography",
	"Music Production",
	"Cooking",
	"Language Teaching",
	"Fitness Training",
	"Yoga",
	"Meditation",
	"Drawing",
	"Painting",
	"Crafting",
	"Gardening",
	"Carpentry",
	"Plumbing",
	"Electrical Work",
	"Car Maintenance",
	"Financial Planning",
	"Business Strategy",
	"Public Speaking",
	"Leadership",
	"Project Management",
}

// SkillReader defines read-only operations for the skill catalog.
type SkillReader interface {
	List(ctx context.Context, search string) ([]models.Skill, error)
	GetByID(ctx context.Context, id int64) (*models.Skill, error)
}

// SkillWriter defines write operations for the skill catalog.
type SkillWriter interface {
	Save(ctx context.Context, name string) (*models.Skill, error)
	EnsureNames(ctx context.Context, names []string) (int, error)
}

// SkillService manages the global skill catalog.
type SkillService struct {
	reader SkillReader
	writer SkillWriter
}

// NewSkillService creates a new SkillService instance.
func NewSkillService(reader SkillReader, writer SkillWriter) *SkillService {
	return &SkillService{reader: reader, writer: writer}
}

// List returns the catalog, optionally filtered by a name substring.
func (svc *SkillService) List(ctx context.Context, search string) ([]models.Skill, error) {
	if strings.ContainsRune(search, 0) {
		return nil, &ValidationError{Err: ErrInvalidInput, Fields: map[string]string{"search": "null characters are not allowed"}}
	}
	skills, err := svc.reader.List(ctx, search)
	if err != nil {
		logger.Log.Errorw("failed to list skills", "err", err)
		return nil, err
	}
	return skills, nil
}

// Get returns one skill.
func (svc *SkillService) Get(ctx context.Context, id int64) (*models.Skill, error) {
	skill, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get skill", "skill_id", id, "err", err)
		return nil, err
	}
	if skill == nil {
		return nil, ErrNotFound
	}
	return skill, nil
}

// Create adds a skill with a unique, non-empty name.
func (svc *SkillService) Create(ctx context.Context, name string) (*models.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Err: ErrInvalidInput, Fields: map[string]string{"name": "this field is required"}}
	}
	fields := map[string]string{}
	checkText(fields, "name", name, maxSkillNameLength)
	if len(fields) > 0 {
		return nil, &ValidationError{Err: ErrInvalidInput, Fields: fields}
	}

	skill, err := svc.writer.Save(ctx, name)
	if errors.Is(err, models.ErrUniqueViolation) {
		return nil, invalidField(ErrSkillAlreadyExists, "name")
	}
	if err != nil {
		logger.Log.Errorw("failed to save skill", "name", name, "err", err)
		return nil, err
	}

	logger.Log.Infow("skill created", "skill_id", skill.ID, "name", skill.Name)
	return skill, nil
}

// SeedDefaults inserts the missing DefaultSkills.
func (svc *SkillService) SeedDefaults(ctx context.Context) (int, error) {
	created, err := svc.writer.EnsureNames(ctx, DefaultSkills)
	if err != nil {
		logger.Log.Errorw("failed to seed default skills", "err", err)
		return created, err
	}
	logger.Log.Infow("default skills processed", "total", len(DefaultSkills), "created", created)
	return created, nil
}
