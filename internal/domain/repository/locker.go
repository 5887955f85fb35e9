package repository

import "context"

// Locker serializa la ejecución de comandos (un solo escritor a la vez).
type Locker interface {
	// Lock bloquea hasta obtener el candado o hasta que ctx termine. unlock es idempotente.
	Lock(ctx context.Context) (unlock func(), err error)
}
