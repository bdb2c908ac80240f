package users

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/proj/internal/domain/errs"
	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/policy"
	"reviewhub/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type UserStorage interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type CreateInput struct {
	Username  string      `json:"username" validate:"required,max=150,username,notreserved"`
	Email     string      `json:"email" validate:"required,max=254,email"`
	FirstName string      `json:"first_name" validate:"max=150"`
	LastName  string      `json:"last_name" validate:"max=150"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role" validate:"omitempty,role"`
}

// UpdateInput is a partial update; nil fields are left as they are.
type UpdateInput struct {
	Username  *string      `json:"username" validate:"omitempty,max=150,username,notreserved"`
	Email     *string      `json:"email" validate:"omitempty,max=254,email"`
	FirstName *string      `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string      `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" validate:"omitempty,role"`
}

// ProfileInput is what a user may change on their own record. Username,
// email and role are accepted so a client can send back what GET /users/me
// returned, but they are read-only and never applied.
type ProfileInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`

	Username *string      `json:"username"`
	Email    *string      `json:"email"`
	Role     *models.Role `json:"role"`
}

type SuperuserInput struct {
	Username string `validate:"required,max=150,username,notreserved"`
	Email    string `validate:"required,max=254,email"`
	Password string `validate:"required,min=8,max=72"`
}

type UserService struct {
	log       *slog.Logger
	storage   UserStorage
	validator *govalidator.Validate
}

func New(log *slog.Logger, storage UserStorage) *UserService {
	return &UserService{
		log:       log,
		storage:   storage,
		validator: validator.New(),
	}
}

func (s *UserService) List(ctx context.Context, actor *models.User, search string, f filters.Filters) ([]models.User, filters.Metadata, error) {
	const op = "users.UserService.List"
	log := s.log.With("op", op)
	if err := policy.Authorize(actor, policy.Read, policy.AccountResource); err != nil {
		return nil, filters.Metadata{}, err
	}
	if err := f.Validate(); err != nil {
		return nil, filters.Metadata{}, err
	}
	f.Normalize()
	users, total, err := s.storage.List(ctx, search, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return users, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *UserService) get(ctx context.Context, log *slog.Logger, username string) (*models.User, error) {
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "username", username)
	if err := policy.Authorize(actor, policy.Read, policy.AccountResource); err != nil {
		return nil, err
	}
	return s.get(ctx, log, username)
}

func (s *UserService) Create(ctx context.Context, actor *models.User, input CreateInput) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "username", input.Username)
	if err := policy.Authorize(actor, policy.Create, policy.AccountResource); err != nil {
		return nil, err
	}
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	user, err := s.storage.Insert(ctx, &models.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, errs.Validation(errs.NonFieldKey, msgUserExists)
		}
		log.Error(err.Error())
		return nil, err
	}
	log.Info("user created", "id", user.ID)
	return user, nil
}

func (s *UserService) save(ctx context.Context, log *slog.Logger, user *models.User) (*models.User, error) {
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("user already exists")
			return nil, errs.Validation(errs.NonFieldKey, msgUserExists)
		case errors.Is(err, storage.ErrNotFound):
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Update(ctx context.Context, actor *models.User, username string, input UpdateInput) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "username", username)
	if err := policy.Authorize(actor, policy.Update, policy.AccountResource); err != nil {
		return nil, err
	}
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	user, err := s.get(ctx, log, username)
	if err != nil {
		return nil, err
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	applyProfile(user, ProfileInput{FirstName: input.FirstName, LastName: input.LastName, Bio: input.Bio})
	return s.save(ctx, log, user)
}

func (s *UserService) Delete(ctx context.Context, actor *models.User, username string) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "username", username)
	if err := policy.Authorize(actor, policy.Delete, policy.AccountResource); err != nil {
		return err
	}
	user, err := s.get(ctx, log, username)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	log.Info("user deleted", "id", user.ID)
	return nil
}

// GetMe returns the actor's own record.
func (s *UserService) GetMe(ctx context.Context, actor *models.User) (*models.User, error) {
	if actor.IsAnonymous() {
		return nil, errs.ErrUnauthorized
	}
	return s.get(ctx, s.log.With("op", "users.UserService.GetMe"), actor.Username)
}

// UpdateMe never touches username, email or role.
func (s *UserService) UpdateMe(ctx context.Context, actor *models.User, input ProfileInput) (*models.User, error) {
	const op = "users.UserService.UpdateMe"
	log := s.log.With("op", op, "username", actor.Username)
	if actor.IsAnonymous() {
		return nil, errs.ErrUnauthorized
	}
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	user, err := s.get(ctx, log, actor.Username)
	if err != nil {
		return nil, err
	}
	applyProfile(user, input)
	return s.save(ctx, log, user)
}

func applyProfile(user *models.User, input ProfileInput) {
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
}

// CreateSuperuser bootstraps an active admin account with a bcrypt password.
func (s *UserService) CreateSuperuser(ctx context.Context, input SuperuserInput) (*models.User, error) {
	const op = "users.UserService.CreateSuperuser"
	log := s.log.With("op", op, "username", input.Username)
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.storage.Insert(ctx, &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsSuperuser:  true,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, errs.Validation(errs.NonFieldKey, msgUserExists)
		}
		log.Error(err.Error())
		return nil, err
	}
	log.Info("superuser created", "id", user.ID)
	return user, nil
}
