package reviews

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/policy"
	"reviewhub/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

type ReviewStorage interface {
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	List(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error)
	Insert(ctx context.Context, titleID, authorID int64, text string, score int) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, titleID, id int64) error
}

type TitleLookup interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
}

type CreateInput struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"min=1,max=10"`
}

type UpdateInput struct {
	Text  *string `json:"text" validate:"omitempty,min=1"`
	Score *int    `json:"score" validate:"omitempty,min=1,max=10"`
}

type ReviewService struct {
	log       *slog.Logger
	storage   ReviewStorage
	titles    TitleLookup
	validator *govalidator.Validate
}

func New(log *slog.Logger, storage ReviewStorage, titles TitleLookup) *ReviewService {
	return &ReviewService{
		log:       log,
		storage:   storage,
		titles:    titles,
		validator: validator.New(),
	}
}

func (s *ReviewService) checkTitle(ctx context.Context, log *slog.Logger, titleID int64) error {
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrTitleNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *ReviewService) List(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, filters.Metadata, error) {
	const op = "reviews.ReviewService.List"
	log := s.log.With("op", op, "title_id", titleID)
	if err := s.checkTitle(ctx, log, titleID); err != nil {
		return nil, filters.Metadata{}, err
	}
	if err := f.Validate(); err != nil {
		return nil, filters.Metadata{}, err
	}
	f.Normalize()
	reviews, total, err := s.storage.List(ctx, titleID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return reviews, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *ReviewService) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	const op = "reviews.ReviewService.Get"
	log := s.log.With("op", op, "title_id", titleID, "id", id)
	if err := s.checkTitle(ctx, log, titleID); err != nil {
		return nil, err
	}
	return s.get(ctx, log, titleID, id)
}

func (s *ReviewService) get(ctx context.Context, log *slog.Logger, titleID, id int64) (*models.Review, error) {
	review, err := s.storage.Get(ctx, titleID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

// Create rejects a second review of the same title by the same author.
func (s *ReviewService) Create(ctx context.Context, actor *models.User, titleID int64, input CreateInput) (*models.Review, error) {
	const op = "reviews.ReviewService.Create"
	log := s.log.With("op", op, "title_id", titleID)
	if err := policy.Authorize(actor, policy.Create, policy.OwnedBy(actor.ID)); err != nil {
		return nil, err
	}
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	review, err := s.storage.Insert(ctx, titleID, actor.ID, input.Text, input.Score)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Info("title not found")
			return nil, ErrTitleNotFound
		case errors.Is(err, storage.ErrConflict):
			log.Info("review already exists", "author_id", actor.ID)
			return nil, ErrReviewAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	log.Info("review created", "id", review.ID)
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, actor *models.User, titleID, id int64, input UpdateInput) (*models.Review, error) {
	const op = "reviews.ReviewService.Update"
	log := s.log.With("op", op, "title_id", titleID, "id", id)
	if actor.IsAnonymous() {
		return nil, policy.Authorize(actor, policy.Update, policy.OwnedBy(0))
	}
	if err := s.checkTitle(ctx, log, titleID); err != nil {
		return nil, err
	}
	review, err := s.get(ctx, log, titleID, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.Update, policy.OwnedBy(review.AuthorID)); err != nil {
		log.Info("update denied", "actor_id", actor.ID)
		return nil, err
	}
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}
	updated, err := s.storage.Update(ctx, review)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

// Delete is allowed to the author, moderators and admins.
func (s *ReviewService) Delete(ctx context.Context, actor *models.User, titleID, id int64) error {
	const op = "reviews.ReviewService.Delete"
	log := s.log.With("op", op, "title_id", titleID, "id", id)
	if actor.IsAnonymous() {
		return policy.Authorize(actor, policy.Delete, policy.OwnedBy(0))
	}
	if err := s.checkTitle(ctx, log, titleID); err != nil {
		return err
	}
	review, err := s.get(ctx, log, titleID, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.Delete, policy.OwnedBy(review.AuthorID)); err != nil {
		log.Info("delete denied", "actor_id", actor.ID)
		return err
	}
	if err := s.storage.Delete(ctx, titleID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	log.Info("review deleted")
	return nil
}
