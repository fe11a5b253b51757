package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"woolshop/internal/domain"
	"woolshop/internal/repos"
)

type CatalogService struct {
	Products *repos.ProductRepo
}

func NewCatalogService(products *repos.ProductRepo) *CatalogService {
	return &CatalogService{Products: products}
}

// ProductInput carries the admin-supplied fields for create and update.
// Slug may be blank, in which case it is derived from the name.
type ProductInput struct {
	Name        string
	Slug        string
	Price       decimal.Decimal
	Images      []string
	Tags        []string
	Description string
}

func (s *CatalogService) ListProducts(tag, search string, page, limit int) ([]domain.Product, *Pagination, error) {
	page, limit = clampPage(page, limit, 12)
	f := repos.ProductFilter{Tag: tag, Search: search}

	total, err := s.Products.Count(f)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.Products.List(f, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}
	return products, paginate(page, limit, total), nil
}

func (s *CatalogService) GetBySlug(slugStr string) (domain.Product, error) {
	p, err := s.Products.GetBySlug(slugStr)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

func (s *CatalogService) GetByID(id string) (domain.Product, error) {
	p, err := s.Products.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

func (s *CatalogService) Tags() ([]string, error) {
	return s.Products.Tags()
}

// Related lists products sharing at least one tag with the given product,
// newest first. An unknown id yields an empty list rather than an error.
func (s *CatalogService) Related(id string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	p, err := s.Products.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.Product{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Products.Related(id, p.Tags, limit)
}

func (s *CatalogService) Create(in ProductInput) (domain.Product, error) {
	id := uuid.NewString()
	chosen, err := s.resolveSlug(in, id)
	if err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		ID:          id,
		Name:        in.Name,
		Slug:        chosen,
		Price:       in.Price,
		Images:      in.Images,
		Tags:        in.Tags,
		Description: in.Description,
	}
	if err := s.Products.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.GetByID(id)
}

func (s *CatalogService) Update(id string, in ProductInput) (domain.Product, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return domain.Product{}, err
	}

	chosen := in.Slug
	// Re-derive the slug when none was given or the name changed.
	if chosen == "" || in.Name != existing.Name {
		chosen, err = s.resolveSlug(ProductInput{Name: in.Name}, id)
		if err != nil {
			return domain.Product{}, err
		}
	} else if chosen != existing.Slug {
		taken, err := s.Products.SlugExists(chosen, id)
		if err != nil {
			return domain.Product{}, err
		}
		if taken {
			return domain.Product{}, ErrSlugTaken
		}
	}

	p := domain.Product{
		ID:          id,
		Name:        in.Name,
		Slug:        chosen,
		Price:       in.Price,
		Images:      in.Images,
		Tags:        in.Tags,
		Description: in.Description,
	}
	if err := s.Products.Update(p); err != nil {
		return domain.Product{}, err
	}
	return s.GetByID(id)
}

func (s *CatalogService) Delete(id string) error {
	n, err := s.Products.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// resolveSlug picks the slug for a product: an explicit slug must be free,
// a derived slug gets a numeric suffix until it is.
func (s *CatalogService) resolveSlug(in ProductInput, id string) (string, error) {
	if in.Slug != "" {
		taken, err := s.Products.SlugExists(in.Slug, id)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrSlugTaken
		}
		return in.Slug, nil
	}

	base := slug.Make(in.Name)
	existing, err := s.Products.Slugs(base, id)
	if err != nil {
		return "", err
	}
	used := make(map[string]bool, len(existing))
	for _, sl := range existing {
		used[sl] = true
	}
	if !used[base] {
		return base, nil
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !used[candidate] {
			return candidate, nil
		}
	}
}
