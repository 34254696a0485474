package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error)
	Create(ctx context.Context, profile *models.Profile) error
}

// CreateProfileRequest is the payload for registering a person.
type CreateProfileRequest struct {
	ID        string  `json:"id"`
	DNI       string  `json:"dni" validate:"required"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Role      string  `json:"role" validate:"required,profile_role"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

// ProfileService lists and creates profiles.
type ProfileService struct {
	repo      profileRepository
	authz     Authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs the profile service.
func NewProfileService(repo profileRepository, authz Authorizer, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, authz: authz, validator: validate, logger: logger}
}

// Get returns a profile by id.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.FromStore(err, "profile not found")
	}
	return profile, nil
}

// ListStudents returns student profiles ordered by last name.
func (s *ProfileService) ListStudents(ctx context.Context, actor models.Actor, search string, page, size int) ([]models.Profile, *models.Pagination, error) {
	return s.list(ctx, actor, models.ProfileFilter{Roles: []models.ProfileRole{models.RoleStudent}, Search: search, Page: page, PageSize: size})
}

// ListStaff returns teacher, director and preceptor profiles ordered by last name.
func (s *ProfileService) ListStaff(ctx context.Context, actor models.Actor, search string, page, size int) ([]models.Profile, *models.Pagination, error) {
	return s.list(ctx, actor, models.ProfileFilter{Roles: models.StaffRoles(), Search: search, Page: page, PageSize: size})
}

func (s *ProfileService) list(ctx context.Context, actor models.Actor, filter models.ProfileFilter) ([]models.Profile, *models.Pagination, error) {
	if err := s.authz.Authorize(ctx, actor, models.CapViewRoster, ""); err != nil {
		return nil, nil, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	profiles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromStore(err, "failed to list profiles")
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return profiles, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create registers a new profile. Names, dni and email are trimmed before validation.
func (s *ProfileService) Create(ctx context.Context, actor models.Actor, req CreateProfileRequest) (*models.Profile, error) {
	req.DNI = strings.TrimSpace(req.DNI)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = trimOptional(req.Email)
	req.Phone = trimOptional(req.Phone)
	req.Address = trimOptional(req.Address)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.authz.Authorize(ctx, actor, models.CapManageProfiles, ""); err != nil {
		return nil, err
	}

	role, _ := models.ParseProfileRole(req.Role)
	profile := &models.Profile{
		ID:        strings.TrimSpace(req.ID),
		DNI:       req.DNI,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      role,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, appErrors.FromStore(err, "failed to create profile")
	}
	s.logger.Info("profile created", zap.String("profile_id", profile.ID), zap.String("role", string(profile.Role)))
	return profile, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
