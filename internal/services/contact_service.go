package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"woolshop/internal/domain"
	"woolshop/internal/repos"
)

type ContactService struct {
	Contacts *repos.ContactRepo
}

func NewContactService(contacts *repos.ContactRepo) *ContactService {
	return &ContactService{Contacts: contacts}
}

func (s *ContactService) Create(name, phone, message string) (domain.Contact, error) {
	c := domain.Contact{ID: uuid.NewString(), Name: name, Phone: phone, Message: message}
	if err := s.Contacts.Create(c); err != nil {
		return domain.Contact{}, err
	}
	return s.Get(c.ID)
}

func (s *ContactService) Get(id string) (domain.Contact, error) {
	c, err := s.Contacts.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Contact{}, ErrNotFound
	}
	return c, err
}

func (s *ContactService) List(page, limit int) ([]domain.Contact, *Pagination, error) {
	page, limit = clampPage(page, limit, 20)

	total, err := s.Contacts.Count()
	if err != nil {
		return nil, nil, err
	}
	contacts, err := s.Contacts.List(limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}
	return contacts, paginate(page, limit, total), nil
}

func (s *ContactService) Delete(id string) error {
	n, err := s.Contacts.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ContactService) Stats() (repos.ContactStats, error) {
	return s.Contacts.Stats()
}
