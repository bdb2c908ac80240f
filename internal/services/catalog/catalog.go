// Package catalog manages the slug-keyed classifications titles are filed
// under: categories and genres. Both share the same rules, so the service
// is written once over SlugStorage.
package catalog

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

type SlugStorage[T any] interface {
	List(ctx context.Context, search string, f filters.Filters) ([]T, int, error)
	Insert(ctx context.Context, name, slug string) (*T, error)
	Delete(ctx context.Context, slug string) error
}

type CreateInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type CatalogService struct {
	log        *slog.Logger
	categories SlugStorage[models.Category]
	genres     SlugStorage[models.Genre]
	validator  *govalidator.Validate
}

func New(log *slog.Logger, categories SlugStorage[models.Category], genres SlugStorage[models.Genre]) *CatalogService {
	return &CatalogService{
		log:        log,
		categories: categories,
		genres:     genres,
		validator:  validator.New(),
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, f filters.Filters) ([]models.Category, filters.Metadata, error) {
	return list(ctx, s.log.With("op", "catalog.CatalogService.ListCategories"), s.categories, search, f)
}

func (s *CatalogService) ListGenres(ctx context.Context, search string, f filters.Filters) ([]models.Genre, filters.Metadata, error) {
	return list(ctx, s.log.With("op", "catalog.CatalogService.ListGenres"), s.genres, search, f)
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor *models.User, input CreateInput) (*models.Category, error) {
	log := s.log.With("op", "catalog.CatalogService.CreateCategory", "slug", input.Slug)
	return create(ctx, log, s.validator, s.categories, actor, input)
}

func (s *CatalogService) CreateGenre(ctx context.Context, actor *models.User, input CreateInput) (*models.Genre, error) {
	log := s.log.With("op", "catalog.CatalogService.CreateGenre", "slug", input.Slug)
	return create(ctx, log, s.validator, s.genres, actor, input)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, actor *models.User, slug string) error {
	log := s.log.With("op", "catalog.CatalogService.DeleteCategory", "slug", slug)
	return remove(ctx, log, s.categories, actor, slug, ErrCategoryNotFound)
}

func (s *CatalogService) DeleteGenre(ctx context.Context, actor *models.User, slug string) error {
	log := s.log.With("op", "catalog.CatalogService.DeleteGenre", "slug", slug)
	return remove(ctx, log, s.genres, actor, slug, ErrGenreNotFound)
}

func list[T any](ctx context.Context, log *slog.Logger, st SlugStorage[T], search string, f filters.Filters) ([]T, filters.Metadata, error) {
	if err := f.Validate(); err != nil {
		return nil, filters.Metadata{}, err
	}
	f.Normalize()
	items, total, err := st.List(ctx, search, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return items, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func create[T any](
	ctx context.Context,
	log *slog.Logger,
	v *govalidator.Validate,
	st SlugStorage[T],
	actor *models.User,
	input CreateInput,
) (*T, error) {
	if err := policy.Authorize(actor, policy.Create, policy.AdminResource); err != nil {
		return nil, err
	}
	if err := validator.Validate(v, input); err != nil {
		return nil, err
	}
	item, err := st.Insert(ctx, input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("slug already taken")
			return nil, errs.Validation("slug", msgSlugTaken)
		}
		log.Error(err.Error())
		return nil, err
	}
	log.Info("created")
	return item, nil
}

func remove[T any](ctx context.Context, log *slog.Logger, st SlugStorage[T], actor *models.User, slug string, notFound error) error {
	if err := policy.Authorize(actor, policy.Delete, policy.AdminResource); err != nil {
		return err
	}
	if err := st.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("not found")
			return notFound
		}
		log.Error(err.Error())
		return err
	}
	log.Info("deleted")
	return nil
}
