package comments

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

type CommentStorage interface {
	Get(ctx context.Context, reviewID, id int64) (*models.Comment, error)
	List(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error)
	Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, reviewID, id int64) error
}

// ReviewLookup resolves a review within its title.
type ReviewLookup interface {
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
}

type Input struct {
	Text string `json:"text" validate:"required,max=500"`
}

type CommentService struct {
	log       *slog.Logger
	storage   CommentStorage
	reviews   ReviewLookup
	validator *govalidator.Validate
}

func New(log *slog.Logger, storage CommentStorage, reviews ReviewLookup) *CommentService {
	return &CommentService{
		log:       log,
		storage:   storage,
		reviews:   reviews,
		validator: validator.New(),
	}
}

func (s *CommentService) checkReview(ctx context.Context, log *slog.Logger, titleID, reviewID int64) error {
	if _, err := s.reviews.Get(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CommentService) get(ctx context.Context, log *slog.Logger, reviewID, id int64) (*models.Comment, error) {
	comment, err := s.storage.Get(ctx, reviewID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("comment not found")
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) List(ctx context.Context, titleID, reviewID int64, f filters.Filters) ([]models.Comment, filters.Metadata, error) {
	const op = "comments.CommentService.List"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	if err := s.checkReview(ctx, log, titleID, reviewID); err != nil {
		return nil, filters.Metadata{}, err
	}
	if err := f.Validate(); err != nil {
		return nil, filters.Metadata{}, err
	}
	f.Normalize()
	comments, total, err := s.storage.List(ctx, reviewID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return comments, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *CommentService) Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	const op = "comments.CommentService.Get"
	log := s.log.With("op", op, "review_id", reviewID, "id", id)
	if err := s.checkReview(ctx, log, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.get(ctx, log, reviewID, id)
}

func (s *CommentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, input Input) (*models.Comment, error) {
	const op = "comments.CommentService.Create"
	log := s.log.With("op", op, "review_id", reviewID)
	if err := policy.Authorize(actor, policy.Create, policy.OwnedBy(actor.ID)); err != nil {
		return nil, err
	}
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	if err := s.checkReview(ctx, log, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.storage.Insert(ctx, reviewID, actor.ID, input.Text)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			log.Info("review removed concurrently")
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	log.Info("comment created", "id", comment.ID)
	return comment, nil
}

// authorized loads the comment and checks the actor may change it.
func (s *CommentService) authorized(
	ctx context.Context,
	log *slog.Logger,
	actor *models.User,
	action policy.Action,
	titleID, reviewID, id int64,
) (*models.Comment, error) {
	if actor.IsAnonymous() {
		return nil, policy.Authorize(actor, action, policy.OwnedBy(0))
	}
	if err := s.checkReview(ctx, log, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.get(ctx, log, reviewID, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, action, policy.OwnedBy(comment.AuthorID)); err != nil {
		log.Info(action.String()+" denied", "actor_id", actor.ID)
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, id int64, input Input) (*models.Comment, error) {
	const op = "comments.CommentService.Update"
	log := s.log.With("op", op, "review_id", reviewID, "id", id)
	comment, err := s.authorized(ctx, log, actor, policy.Update, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	comment.Text = input.Text
	updated, err := s.storage.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, id int64) error {
	const op = "comments.CommentService.Delete"
	log := s.log.With("op", op, "review_id", reviewID, "id", id)
	if _, err := s.authorized(ctx, log, actor, policy.Delete, titleID, reviewID, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, reviewID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		log.Error(err.Error())
		return err
	}
	log.Info("comment deleted")
	return nil
}
