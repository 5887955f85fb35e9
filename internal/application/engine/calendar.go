package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

func (d *Dispatcher) createEvent(s *session, c command.CreateEvent) (string, error) {
	title := strings.TrimSpace(c.Title)
	date := strings.TrimSpace(c.Date)
	at := strings.TrimSpace(c.Time)
	if title == "" || date == "" || at == "" {
		return "", domain.ErrMissingEventFields
	}
	etype := strings.ToLower(strings.TrimSpace(c.Type))
	if etype == "" {
		etype = entity.EventTypeEvent
	}

	id := s.nextID(PrefixEvent, s.calendar.ids())
	s.calendar.put(id, &entity.CalendarEvent{
		ID:          id,
		Type:        etype,
		Title:       title,
		Date:        date,
		Time:        at,
		DurationMin: entity.ClampDuration(c.Duration.IntOr(entity.DefaultEventDuration)),
		Notes:       strings.TrimSpace(c.Notes),
		CreatedBy:   s.actor,
		VisibleTo:   visibleTo(entity.RoleAdmin, s.actor, strings.TrimSpace(c.AssignTo)),
		CreatedAt:   s.now,
	})

	// Un actor desconocido cuenta como no admin.
	if u, ok := s.users.get(s.actor); s.actor != "" && (!ok || !u.IsAdmin()) {
		s.notify(entity.NotificationEventCreated, fmt.Sprintf("Event %s created by %s", id, s.actor), "")
	}
	return "event created", nil
}

func (d *Dispatcher) archiveEvent(s *session, c command.ArchiveEvent) (string, error) {
	ev, ok := s.calendar.get(c.EventID)
	if !ok {
		return "", domain.ErrEventNotFound
	}
	ev.Archived = true
	s.calendar.touch()
	return "event archived", nil
}

// visibleTo lista sin vacíos ni duplicados, en orden de aparición.
func visibleTo(entries ...string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e != "" && !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
