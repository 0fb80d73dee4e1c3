package services

import (
	"context"
	"strings"

	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
)

// DiscoveryLimit caps list and search results.
const DiscoveryLimit = 20

// UserSkillReader defines read-only operations for user-skill associations.
type UserSkillReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.UserSkillDB, error)
	GetByID(ctx context.Context, id, userID int64) (*models.UserSkillDB, error)
}

// UserService serves profiles and account discovery.
type UserService struct {
	reader     UserReader
	writer     UserWriter
	userSkills UserSkillReader
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserReader, writer UserWriter, userSkills UserSkillReader) *UserService {
	return &UserService{
		reader:     reader,
		writer:     writer,
		userSkills: userSkills,
	}
}

func (svc *UserService) withSkills(ctx context.Context, user *models.UserDB) (*models.UserProfile, error) {
	userSkills, err := svc.userSkills.ListByUser(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to list user skills", "user_id", user.ID, "err", err)
		return nil, err
	}

	profile := &models.UserProfile{
		UserDB:        user,
		OfferedSkills: []models.Skill{},
		WantedSkills:  []models.Skill{},
		SkillCount:    len(userSkills),
	}
	for _, us := range userSkills {
		skill := models.Skill{ID: us.SkillID, Name: us.SkillName}
		if us.IsOffered {
			profile.OfferedSkills = append(profile.OfferedSkills, skill)
		} else {
			profile.WantedSkills = append(profile.WantedSkills, skill)
		}
	}
	return profile, nil
}

// GetProfile returns the caller's own account with skills.
func (svc *UserService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return svc.withSkills(ctx, user)
}

// blankToNil maps a whitespace-only value to nil.
func blankToNil(s *string) *string {
	if s != nil && strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// UpdateProfile applies the allow-listed fields of upd to the caller's account.
func (svc *UserService) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.UserProfile, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if upd.FirstName != nil {
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Location != nil {
		user.Location = blankToNil(upd.Location)
	}
	if upd.Availability != nil {
		user.Availability = upd.Availability
	}
	if upd.ProfilePhoto != nil {
		user.ProfilePhoto = blankToNil(upd.ProfilePhoto)
	}
	if upd.IsPublic != nil {
		user.IsPublic = *upd.IsPublic
	}
	if upd.Bio != nil {
		user.Bio = blankToNil(upd.Bio)
	}

	fields := map[string]string{}
	checkText(fields, "first_name", user.FirstName, maxNameLength)
	checkText(fields, "last_name", user.LastName, maxNameLength)
	checkOptionalText(fields, "location", user.Location, maxLocationLength)
	checkOptionalText(fields, "availability", user.Availability, maxAvailabilityLength)
	checkOptionalText(fields, "profile_photo", user.ProfilePhoto, maxProfilePhotoLength)
	checkOptionalText(fields, "bio", user.Bio, 0)
	if len(fields) > 0 {
		return nil, &ValidationError{Err: ErrInvalidInput, Fields: fields}
	}

	saved, err := svc.writer.UpdateProfile(ctx, user)
	if err != nil {
		logger.Log.Errorw("failed to update profile", "user_id", userID, "err", err)
		return nil, err
	}
	if saved == nil {
		return nil, ErrNotFound
	}
	return svc.withSkills(ctx, saved)
}

// List returns public accounts other than the caller.
func (svc *UserService) List(ctx context.Context, callerID int64) ([]models.UserDB, error) {
	return svc.Search(ctx, models.UserSearchFilter{CallerID: callerID})
}

// Search returns public accounts other than the caller matching filter.
func (svc *UserService) Search(ctx context.Context, filter models.UserSearchFilter) ([]models.UserDB, error) {
	fields := map[string]string{}
	checkText(fields, "q", filter.Query, 0)
	checkText(fields, "location", filter.Location, 0)
	checkText(fields, "skill", filter.Skill, 0)
	if len(fields) > 0 {
		return nil, &ValidationError{Err: ErrInvalidInput, Fields: fields}
	}

	filter.Limit = DiscoveryLimit
	users, err := svc.reader.Search(ctx, filter)
	if err != nil {
		logger.Log.Errorw("failed to search users", "err", err)
		return nil, err
	}
	return users, nil
}

// ListPublicSkills returns the skill associations of account id under the
// same visibility rule as GetPublicProfile.
func (svc *UserService) ListPublicSkills(ctx context.Context, callerID, id int64) ([]models.UserSkillDB, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", id, "err", err)
		return nil, err
	}
	if user == nil || (!user.IsPublic && user.ID != callerID) {
		return nil, ErrNotFound
	}

	userSkills, err := svc.userSkills.ListByUser(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to list user skills", "user_id", id, "err", err)
		return nil, err
	}
	return userSkills, nil
}

// GetPublicProfile returns account id with skills when it is public or the caller's own.
func (svc *UserService) GetPublicProfile(ctx context.Context, callerID, id int64) (*models.UserProfile, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", id, "err", err)
		return nil, err
	}
	if user == nil || (!user.IsPublic && user.ID != callerID) {
		return nil, ErrNotFound
	}
	return svc.withSkills(ctx, user)
}
