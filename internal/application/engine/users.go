package engine

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

func (d *Dispatcher) createEmployee(s *session, c command.CreateEmployee) (string, error) {
	username := strings.ToLower(strings.TrimSpace(c.Username))
	password := strings.TrimSpace(c.Password)
	if username == "" || password == "" {
		return "", domain.ErrMissingCredentials
	}
	for _, u := range s.users.rows {
		if strings.EqualFold(u.Username, username) {
			return "", domain.ErrUsernameExists
		}
	}
	role := c.Role
	if role != entity.RoleEmployee && role != entity.RoleDelivery {
		role = entity.RoleEmployee
	}
	hash, err := d.hashPassword(password)
	if err != nil {
		return "", err
	}

	id := s.nextID(PrefixUser, s.users.ids())
	s.users.put(id, &entity.User{
		ID:              id,
		Role:            role,
		Username:        username,
		PassHash:        hash,
		Active:          true,
		NeedsFirstLogin: true,
		CreatedAt:       s.now,
	})
	return "employee created", nil
}

func (d *Dispatcher) disableUser(s *session, c command.DisableUser) (string, error) {
	u, ok := s.users.get(c.UserID)
	if !ok {
		return "", domain.ErrUserNotFound
	}
	u.Active = false
	s.users.touch()
	return "user disabled", nil
}

func (d *Dispatcher) resetPassword(s *session, c command.ResetPassword) (string, error) {
	u, ok := s.users.get(c.UserID)
	password := strings.TrimSpace(c.Password)
	if !ok || password == "" {
		return "", domain.ErrBadRequest
	}
	hash, err := d.hashPassword(password)
	if err != nil {
		return "", err
	}
	u.PassHash = hash
	u.NeedsFirstLogin = true
	s.users.touch()
	return "password reset", nil
}

// hashPassword bcrypt no admite más de 72 bytes: se rechaza como entrada inválida.
func (d *Dispatcher) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.passwordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrBadRequest
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
