// Package engine ejecuta comandos contra los almacenes de entidades: valida reglas de
// negocio, muta, recalcula precios, registra auditoría y notificaciones, y persiste.
package engine

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/domain/repository"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// MsgInternalError mensaje visible ante cualquier fallo que no sea de negocio.
const MsgInternalError = "internal error"

// Outcome resultado de un comando: OK y un mensaje (ID creado, detalle o motivo del rechazo).
type Outcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Dispatcher máquina de estados de comandos. No evalúa roles: asume comandos ya autorizados.
type Dispatcher struct {
	store        repository.SnapshotStore
	locker       repository.Locker
	renderer     repository.DocumentRenderer
	log          *logger.Logger
	clock        func() time.Time
	passwordCost int
}

// Option configura el Dispatcher.
type Option func(*Dispatcher)

// WithClock reloj para created_at y auditoría.
func WithClock(clock func() time.Time) Option {
	return func(d *Dispatcher) { d.clock = clock }
}

// WithLogger logger estructurado.
func WithLogger(log *logger.Logger) Option {
	return func(d *Dispatcher) { d.log = log.Component("engine") }
}

// WithPasswordCost costo bcrypt para contraseñas de empleados.
func WithPasswordCost(cost int) Option {
	return func(d *Dispatcher) { d.passwordCost = cost }
}

// NewDispatcher construye el motor de comandos.
func NewDispatcher(
	store repository.SnapshotStore,
	locker repository.Locker,
	renderer repository.DocumentRenderer,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		store:        store,
		locker:       locker,
		renderer:     renderer,
		log:          logger.Nop(),
		clock:        time.Now,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ExecuteEnvelope decodifica el payload del sobre y ejecuta el comando.
func (d *Dispatcher) ExecuteEnvelope(ctx context.Context, env command.Envelope) Outcome {
	cmd, err := env.Command()
	if err != nil {
		d.log.Info().Err(err).Str("cmd", env.Cmd).Msg("payload inválido")
		return Outcome{OK: false, Message: domain.ErrBadPayload.Error()}
	}
	return d.Execute(ctx, env.Actor, cmd)
}

// Execute ejecuta un comando de forma completa y serializada. Nunca devuelve error: todo
// camino termina en un Outcome. Los cambios se persisten solo si el comando tiene éxito.
func (d *Dispatcher) Execute(ctx context.Context, actor string, cmd command.Command) Outcome {
	log := d.log.Command(cmd.Name(), actor)
	if _, unknown := cmd.(command.Unknown); unknown {
		log.Info().Msg("comando desconocido")
		return Outcome{OK: false, Message: domain.ErrUnknownCommand.Error()}
	}

	unlock, err := d.locker.Lock(ctx)
	if err != nil {
		return d.internal(log, err)
	}
	defer unlock()

	s, err := openSession(ctx, d.store, d.log, actor, d.clock().Format(entity.TimeLayout))
	if err != nil {
		return d.internal(log, err)
	}

	msg, err := d.apply(ctx, s, cmd)
	if err != nil {
		if domain.IsRejection(err) {
			log.Info().Str("reason", err.Error()).Msg("comando rechazado")
			return Outcome{OK: false, Message: err.Error()}
		}
		return d.internal(log, err)
	}

	if err := s.commit(ctx, d.store); err != nil {
		return d.internal(log, err)
	}
	log.Debug().Str("msg", msg).Msg("comando aplicado")
	return Outcome{OK: true, Message: msg}
}

func (d *Dispatcher) internal(log *logger.Logger, err error) Outcome {
	log.Error().Err(err).Msg("fallo interno ejecutando comando")
	return Outcome{OK: false, Message: MsgInternalError}
}

func (d *Dispatcher) apply(ctx context.Context, s *session, cmd command.Command) (string, error) {
	switch c := cmd.(type) {
	case command.UpdateSettings:
		return d.updateSettings(s, c)
	case command.CreateEmployee:
		return d.createEmployee(s, c)
	case command.DisableUser:
		return d.disableUser(s, c)
	case command.ResetPassword:
		return d.resetPassword(s, c)
	case command.ImportLeadsBatch:
		return d.importLeadsBatch(s, c)
	case command.CreateLead:
		return d.createLead(s, c)
	case command.DeleteLeads:
		return d.deleteLeads(s, c)
	case command.AssignLead:
		return d.assignLead(s, c)
	case command.AssignLeadsBulk:
		return d.assignLeadsBulk(s, c)
	case command.UpdateLeadFields:
		return d.updateLeadFields(s, c)
	case command.ArchiveLead:
		return d.archiveLead(s, c)
	case command.CreateOrder:
		return d.createOrder(s, c)
	case command.UpdateOrderFields:
		return d.updateOrderFields(s, c)
	case command.ArchiveOrder:
		return d.archiveOrder(s, c)
	case command.ArchiveClient:
		return d.archiveClient(s, c)
	case command.GenerateInvoicePDF:
		return d.generateInvoicePDF(ctx, s, c)
	case command.MarkOrderPaid:
		return d.markOrderPaid(s, c)
	case command.ScheduleDelivery:
		return d.scheduleDelivery(s, c)
	case command.GenerateOrderPDF:
		return d.generateOrderPDF(ctx, s, c)
	case command.MarkDelivered:
		return d.markDelivered(s, c)
	case command.CreateEvent:
		return d.createEvent(s, c)
	case command.ArchiveEvent:
		return d.archiveEvent(s, c)
	default:
		return "", domain.ErrUnknownCommand
	}
}
