package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Slug        string          `db:"slug" json:"slug"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Images      []string        `db:"-" json:"images"`
	Tags        []string        `db:"-" json:"tags"`
	Description string          `db:"description" json:"description"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt,omitempty"`

	// Raw JSON array columns; decoded into Images/Tags by the repo.
	ImagesJSON string `db:"images_json" json:"-"`
	TagsJSON   string `db:"tags_json" json:"-"`
}

type Contact struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Phone     string `db:"phone" json:"phone"`
	Message   string `db:"message" json:"message"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
