// Package lock implementa el escritor único del motor: mutex en proceso o candado Redis
// cuando varios procesos comparten el directorio de datos.
package lock

import (
	"context"
	"sync"

	"github.com/AchrafRT/sales-crm/internal/domain/repository"
)

var _ repository.Locker = (*Local)(nil)

// Local candado en proceso. Respeta la cancelación del contexto mientras espera.
type Local struct {
	ch chan struct{}
}

// NewLocal construye el candado local.
func NewLocal() *Local {
	return &Local{ch: make(chan struct{}, 1)}
}

// Lock espera el candado o el fin de ctx.
func (l *Local) Lock(ctx context.Context) (func(), error) {
	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() { once.Do(func() { <-l.ch }) }, nil
}
