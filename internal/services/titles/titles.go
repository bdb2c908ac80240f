package titles

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
)

type TitleStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, q storage.TitleQuery, f filters.Filters) ([]models.Title, int, error)
	Insert(ctx context.Context, rec storage.TitleRecord) (*models.Title, error)
	Update(ctx context.Context, id int64, rec storage.TitleRecord) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryLookup interface {
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type GenreLookup interface {
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
}

// CreateInput references its category and genres by slug.
type CreateInput struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,notfuture"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"omitempty,slug"`
	Genres      []string `json:"genre" validate:"required,min=1,dive,slug"`
}

type UpdateInput struct {
	Name        *string  `json:"name" validate:"omitempty,max=256"`
	Year        *int     `json:"year" validate:"omitempty,notfuture"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitempty,slug"`
	Genres      []string `json:"genre" validate:"omitempty,min=1,dive,slug"`
}

type TitleService struct {
	log        *slog.Logger
	storage    TitleStorage
	categories CategoryLookup
	genres     GenreLookup
	validator  *govalidator.Validate
}

func New(log *slog.Logger, storage TitleStorage, categories CategoryLookup, genres GenreLookup) *TitleService {
	return &TitleService{
		log:        log,
		storage:    storage,
		categories: categories,
		genres:     genres,
		validator:  validator.New(),
	}
}

func (s *TitleService) List(ctx context.Context, q storage.TitleQuery, f filters.Filters) ([]models.Title, filters.Metadata, error) {
	const op = "titles.TitleService.List"
	log := s.log.With("op", op)
	if err := f.Validate(); err != nil {
		return nil, filters.Metadata{}, err
	}
	f.Normalize()
	titles, total, err := s.storage.List(ctx, q, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return titles, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *TitleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	const op = "titles.TitleService.Get"
	log := s.log.With("op", op, "id", id)
	title, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

// resolve turns slugs into ids, reporting unknown ones as field errors.
func (s *TitleService) resolve(ctx context.Context, category *string, genres []string, rec *storage.TitleRecord) error {
	fieldErrs := make(map[string]string)
	if category != nil && *category != "" {
		c, err := s.categories.GetBySlug(ctx, *category)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			fieldErrs["category"] = msgUnknownCategory
		case err != nil:
			return err
		default:
			rec.CategoryID = &c.ID
		}
	}
	if genres != nil {
		rec.GenreIDs = make([]int64, 0, len(genres))
		for _, slug := range genres {
			g, err := s.genres.GetBySlug(ctx, slug)
			if errors.Is(err, storage.ErrNotFound) {
				fieldErrs["genre"] = msgUnknownGenre
				continue
			}
			if err != nil {
				return err
			}
			rec.GenreIDs = append(rec.GenreIDs, g.ID)
		}
	}
	return errs.NewValidation(fieldErrs)
}

func (s *TitleService) Create(ctx context.Context, actor *models.User, input CreateInput) (*models.Title, error) {
	const op = "titles.TitleService.Create"
	log := s.log.With("op", op, "name", input.Name)
	if err := policy.Authorize(actor, policy.Create, policy.AdminResource); err != nil {
		return nil, err
	}
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	rec := storage.TitleRecord{Name: input.Name, Year: input.Year, Description: input.Description}
	if err := s.resolve(ctx, &input.Category, input.Genres, &rec); err != nil {
		return nil, err
	}
	title, err := s.storage.Insert(ctx, rec)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			log.Info("category or genre removed concurrently")
			return nil, errs.Validation(errs.NonFieldKey, msgUnknownGenre)
		}
		log.Error(err.Error())
		return nil, err
	}
	log.Info("title created", "id", title.ID)
	return title, nil
}

func (s *TitleService) Update(ctx context.Context, actor *models.User, id int64, input UpdateInput) (*models.Title, error) {
	const op = "titles.TitleService.Update"
	log := s.log.With("op", op, "id", id)
	if err := policy.Authorize(actor, policy.Update, policy.AdminResource); err != nil {
		return nil, err
	}
	if err := validator.Validate(s.validator, input); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec := storage.TitleRecord{Name: current.Name, Year: current.Year, Description: current.Description}
	if current.Category != nil {
		rec.CategoryID = &current.Category.ID
	}
	if input.Name != nil {
		rec.Name = *input.Name
	}
	if input.Year != nil {
		rec.Year = *input.Year
	}
	if input.Description != nil {
		rec.Description = *input.Description
	}
	if err := s.resolve(ctx, input.Category, input.Genres, &rec); err != nil {
		return nil, err
	}
	title, err := s.storage.Update(ctx, id, rec)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Info("title not found")
			return nil, ErrTitleNotFound
		case errors.Is(err, storage.ErrInvalidReference):
			log.Info("category or genre removed concurrently")
			return nil, errs.Validation(errs.NonFieldKey, msgUnknownGenre)
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

// Delete removes the title along with its reviews and their comments.
func (s *TitleService) Delete(ctx context.Context, actor *models.User, id int64) error {
	const op = "titles.TitleService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := policy.Authorize(actor, policy.Delete, policy.AdminResource); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrTitleNotFound
		}
		log.Error(err.Error())
		return err
	}
	log.Info("title deleted")
	return nil
}
