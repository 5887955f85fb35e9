package engine

import (
	"context"
	"fmt"

	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/domain/repository"
)

// SeedUser usuario inicial.
type SeedUser struct {
	Username string
	Password string
	Role     string
}

// DefaultSeedUsers admin y un empleado de prueba.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Username: "admin", Password: "admin", Role: entity.RoleAdmin},
		{Username: "employee", Password: "employee", Role: entity.RoleEmployee},
	}
}

// Seed escribe la configuración por defecto si no existe y crea los usuarios dados si el
// almacén de usuarios está vacío. Devuelve true si cambió algo.
func (d *Dispatcher) Seed(ctx context.Context, users []SeedUser) (bool, error) {
	unlock, err := d.locker.Lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	raw, err := d.store.Load(ctx, repository.StoreSettings)
	if err != nil {
		return false, fmt.Errorf("cargar settings: %w", err)
	}
	s, err := openSession(ctx, d.store, d.log, "system", d.clock().Format(entity.TimeLayout))
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		s.settings = entity.DefaultSettings()
		s.settingsDirty = true
	}
	if len(s.users.rows) == 0 {
		for _, su := range users {
			hash, err := d.hashPassword(su.Password)
			if err != nil {
				return false, err
			}
			id := s.nextID(PrefixUser, s.users.ids())
			s.users.put(id, &entity.User{
				ID:              id,
				Role:            su.Role,
				Username:        su.Username,
				PassHash:        hash,
				Active:          true,
				NeedsFirstLogin: su.Role != entity.RoleAdmin,
				CreatedAt:       s.now,
			})
		}
	}
	changed := s.settingsDirty || s.users.dirty
	if err := s.commit(ctx, d.store); err != nil {
		return false, err
	}
	if changed {
		d.log.Info().Int("users", len(s.users.rows)).Msg("datos iniciales creados")
	}
	return changed, nil
}
