package repos

import (
	"encoding/json"
	"strings"

	"github.com/jmoiron/sqlx"

	"woolshop/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductFilter narrows catalog listings. Tag is an exact match against the
// tag array; Search is a case-insensitive substring over name, description
// and tags. Both apply when both are set.
type ProductFilter struct {
	Tag    string
	Search string
}

var likeEscape = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const productColumns = `
  id, name, slug, price, images_json, tags_json, description,
  created_at, COALESCE(updated_at,'') AS updated_at`

func filterWhere(f ProductFilter) (string, []any) {
	where := `1=1`
	args := []any{}
	if f.Tag != "" {
		where += ` AND EXISTS (SELECT 1 FROM json_each(products.tags_json) WHERE json_each.value = ?)`
		args = append(args, f.Tag)
	}
	if f.Search != "" {
		// ulower (registered alongside OpenDB) folds Unicode case; % and _
		// in the query are literals, not wildcards.
		like := "%" + likeEscape.Replace(strings.ToLower(f.Search)) + "%"
		where += ` AND (ulower(name) LIKE ? ESCAPE '\' OR ulower(description) LIKE ? ESCAPE '\'
		  OR EXISTS (SELECT 1 FROM json_each(products.tags_json) WHERE ulower(json_each.value) LIKE ? ESCAPE '\'))`
		args = append(args, like, like, like)
	}
	return where, args
}

func (r *ProductRepo) List(f ProductFilter, limit, offset int) ([]domain.Product, error) {
	where, args := filterWhere(f)
	args = append(args, limit, offset)
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productColumns+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	for i := range out {
		hydrate(&out[i])
	}
	return out, nil
}

func (r *ProductRepo) Count(f ProductFilter) (int, error) {
	where, args := filterWhere(f)
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE `+where, args...)
	return n, err
}

func (r *ProductRepo) GetByID(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		return domain.Product{}, err
	}
	hydrate(&p)
	return p, nil
}

func (r *ProductRepo) GetBySlug(slug string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productColumns+` FROM products WHERE slug = ?`, slug)
	if err != nil {
		return domain.Product{}, err
	}
	hydrate(&p)
	return p, nil
}

// GetByIDs batch-fetches the referenced products. Missing ids are simply
// absent from the result; the caller decides whether that is an error.
func (r *ProductRepo) GetByIDs(ids []string) (map[string]domain.Product, error) {
	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.Product
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	out := make(map[string]domain.Product, len(rows))
	for i := range rows {
		hydrate(&rows[i])
		out[rows[i].ID] = rows[i]
	}
	return out, nil
}

func (r *ProductRepo) Create(p domain.Product) error {
	images, tags := marshalArrays(p)
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, slug, price, images_json, tags_json, description)
	  VALUES(?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Slug, p.Price, images, tags, p.Description)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	images, tags := marshalArrays(p)
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, slug=?, price=?, images_json=?, tags_json=?, description=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.Name, p.Slug, p.Price, images, tags, p.Description, p.ID)
	return err
}

func (r *ProductRepo) Delete(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Slugs returns every slug equal to base or starting with "base-", used to
// pick the next free "-N" suffix. excludeID skips the product being updated.
func (r *ProductRepo) Slugs(base, excludeID string) ([]string, error) {
	var out []string
	err := r.db.Select(&out, `
	  SELECT slug FROM products
	  WHERE (slug = ? OR slug LIKE ?) AND id != ?
	`, base, base+"-%", excludeID)
	return out, err
}

func (r *ProductRepo) SlugExists(slug, excludeID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE slug = ? AND id != ?`, slug, excludeID)
	return n > 0, err
}

// Tags lists every distinct tag across the catalog, sorted.
func (r *ProductRepo) Tags() ([]string, error) {
	out := []string{}
	err := r.db.Select(&out, `
	  SELECT DISTINCT json_each.value
	  FROM products, json_each(products.tags_json)
	  ORDER BY 1`)
	return out, err
}

// Related lists newest products sharing at least one of the given tags.
func (r *ProductRepo) Related(excludeID string, tags []string, limit int) ([]domain.Product, error) {
	if len(tags) == 0 {
		return []domain.Product{}, nil
	}
	query, args, err := sqlx.In(`
	  SELECT `+productColumns+`
	  FROM products
	  WHERE id != ?
	    AND EXISTS (SELECT 1 FROM json_each(products.tags_json) WHERE json_each.value IN (?))
	  ORDER BY created_at DESC, id
	  LIMIT ?`, excludeID, tags, limit)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	if err := r.db.Select(&out, query, args...); err != nil {
		return nil, err
	}
	for i := range out {
		hydrate(&out[i])
	}
	return out, nil
}

func hydrate(p *domain.Product) {
	p.Images = []string{}
	p.Tags = []string{}
	_ = json.Unmarshal([]byte(p.ImagesJSON), &p.Images)
	_ = json.Unmarshal([]byte(p.TagsJSON), &p.Tags)
}

func marshalArrays(p domain.Product) (string, string) {
	images, _ := json.Marshal(p.Images)
	tags, _ := json.Marshal(p.Tags)
	return string(images), string(tags)
}
