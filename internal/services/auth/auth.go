package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reviewhub/proj/internal/domain/errs"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/confirmation"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/mails"
	"reviewhub/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type UserStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

type SignUpInput struct {
	Username string `json:"username" validate:"required,max=150,username,notreserved"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

type TokenInput struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

type AuthService struct {
	log       *slog.Logger
	users     UserStorage
	mailer    MailProvider
	codes     *confirmation.Generator
	validator *govalidator.Validate
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

func New(
	log *slog.Logger,
	users UserStorage,
	mailer MailProvider,
	secret string,
	accessTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:       log,
		users:     users,
		mailer:    mailer,
		codes:     confirmation.NewGenerator(secret),
		validator: validator.New(),
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

func (s *AuthService) lookup(ctx context.Context, get func(context.Context, string) (*models.User, error), key string) (*models.User, error) {
	user, err := get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// SignUp registers a pending user, or reuses the record when the exact same
// username/email pair is submitted again, and mails a fresh confirmation code.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*models.User, error) {
	const op = "auth.AuthService.SignUp"
	log := s.log.With("op", op, "username", input.Username)
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	byName, err := s.lookup(ctx, s.users.GetByUsername, input.Username)
	if err != nil {
		log.Error("Error getting user by username", "errMsg", err.Error())
		return nil, err
	}
	byEmail, err := s.lookup(ctx, s.users.GetByEmail, input.Email)
	if err != nil {
		log.Error("Error getting user by email", "errMsg", err.Error())
		return nil, err
	}
	fieldErrs := make(map[string]string)
	if byName != nil && !strings.EqualFold(byName.Email, input.Email) {
		fieldErrs["username"] = msgUsernameTaken
	}
	if byEmail != nil && byEmail.Username != input.Username {
		fieldErrs["email"] = msgEmailTaken
	}
	if err := errs.NewValidation(fieldErrs); err != nil {
		log.Info("sign up rejected", "fields", fieldErrs)
		return nil, err
	}

	user := byName
	if user == nil {
		user, err = s.users.Insert(ctx, &models.User{
			Username: input.Username,
			Email:    input.Email,
			Role:     models.RoleUser,
		})
		if err != nil {
			if errors.Is(err, storage.ErrConflict) {
				log.Info("user registered concurrently")
				return nil, errs.Validation(errs.NonFieldKey, msgAlreadyRegistered)
			}
			log.Error("Error inserting user", "errMsg", err.Error())
			return nil, err
		}
		log.Info("user registered", "id", user.ID)
	}

	if err := s.sendConfirmationCode(user); err != nil {
		log.Error("Error sending confirmation code", "errMsg", err.Error())
		return nil, fmt.Errorf("%w: %w", errs.ErrDispatch, err)
	}
	return user, nil
}

func (s *AuthService) sendConfirmationCode(user *models.User) error {
	return s.mailer.Send(user.Email, mails.ConfirmationCodeTmpl, map[string]any{
		"username":         user.Username,
		"confirmationCode": s.codes.Make(user),
	})
}

// GetToken exchanges a confirmation code for an access token. A successful
// exchange activates the user and stamps last_login, which invalidates the code.
func (s *AuthService) GetToken(ctx context.Context, input TokenInput) (string, error) {
	const op = "auth.AuthService.GetToken"
	log := s.log.With("op", op, "username", input.Username)
	if err := validator.Validate(s.validator, input); err != nil {
		return "", err
	}
	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return "", ErrUserNotFound
		}
		log.Error("Error getting user", "errMsg", err.Error())
		return "", err
	}
	if !s.codes.Check(user, input.ConfirmationCode) {
		log.Info("invalid confirmation code")
		return "", errs.Validation(errs.NonFieldKey, msgInvalidCode)
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	user.IsActive = true
	user.LastLogin = &now
	user, err = s.users.Update(ctx, user)
	if err != nil {
		log.Error("Error activating user", "errMsg", err.Error())
		return "", err
	}
	token, err := s.NewAccessToken(user.ID)
	if err != nil {
		log.Error("Error signing token", "errMsg", err.Error())
		return "", err
	}
	log.Info("token issued", "id", user.ID)
	return token, nil
}

func (s *AuthService) NewAccessToken(userID int64) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies the signature and expiry and returns the user id.
func (s *AuthService) ParseToken(token string) (int64, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.AuthService.Authenticate"
	log := s.log.With("op", op)
	userID, err := s.ParseToken(token)
	if err != nil {
		log.Debug("token rejected")
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("token owner not found", "id", userID)
			return nil, ErrInvalidToken
		}
		log.Error("Error getting user", "errMsg", err.Error())
		return nil, err
	}
	if !user.IsActive {
		log.Info("token owner is inactive", "id", userID)
		return nil, ErrInactiveUser
	}
	return user, nil
}
