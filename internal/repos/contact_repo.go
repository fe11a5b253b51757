package repos

import (
	"github.com/jmoiron/sqlx"

	"woolshop/internal/domain"
)

type ContactRepo struct{ db *sqlx.DB }

func NewContactRepo(db *sqlx.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(c domain.Contact) error {
	_, err := r.db.Exec(`
	  INSERT INTO contacts(id, name, phone, message) VALUES(?,?,?,?)
	`, c.ID, c.Name, c.Phone, c.Message)
	return err
}

func (r *ContactRepo) Get(id string) (domain.Contact, error) {
	var c domain.Contact
	err := r.db.Get(&c, `
	  SELECT id, name, phone, message, created_at FROM contacts WHERE id = ?`, id)
	return c, err
}

func (r *ContactRepo) List(limit, offset int) ([]domain.Contact, error) {
	out := []domain.Contact{}
	err := r.db.Select(&out, `
	  SELECT id, name, phone, message, created_at
	  FROM contacts
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

func (r *ContactRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM contacts`)
	return n, err
}

func (r *ContactRepo) Delete(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ContactStats struct {
	TotalContacts  int `db:"total" json:"totalContacts"`
	RecentContacts int `db:"recent" json:"recentContacts"`
}

// Stats counts the whole inbox and the last seven days.
func (r *ContactRepo) Stats() (ContactStats, error) {
	var s ContactStats
	err := r.db.Get(&s, `
	  SELECT COUNT(*) AS total,
	         COALESCE(SUM(created_at >= datetime('now','-7 day')), 0) AS recent
	  FROM contacts`)
	return s, err
}
