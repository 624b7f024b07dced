package service

import (
	"github.com/mediboard/mediboard/internal/model"
	"github.com/mediboard/mediboard/internal/repository"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.users.ByID(id)
}

func (s *UserService) ByEmail(email string) (*model.User, error) {
	return s.users.ByEmail(email)
}

func (s *UserService) ListByRole(role string) ([]model.User, error) {
	return s.users.ListByRole(role)
}
