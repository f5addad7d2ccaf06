package service

import (
	"context"

	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/domain"
	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/repository"
	"github.com/cs121-teamhub/teamhub-backend/internal/logging"
)

// CalendarService resolves the caller, validates the event and runs the
// store operation. Every method takes the raw request document.
type CalendarService struct {
	identity IdentityResolver
	store    repository.EventStore
}

func NewCalendarService(identity IdentityResolver, store repository.EventStore) *CalendarService {
	return &CalendarService{
		identity: identity,
		store:    store,
	}
}

func (s *CalendarService) List(ctx context.Context, doc domain.Document) ([]domain.Document, error) {
	log := logging.New(ctx)

	rc, err := NewRequestContext(ctx, s.identity, doc)
	if err != nil {
		return nil, err
	}

	events, err := s.store.List(ctx, rc.Scope(), rc.UserID())
	if err != nil {
		log.Error("list_events", err)
		return nil, err
	}

	log.Infof("list_events", "school=%s team=%s count=%d", rc.SchoolID(), rc.TeamID(), len(events))
	return events, nil
}

func (s *CalendarService) Create(ctx context.Context, doc domain.Document) (string, error) {
	log := logging.New(ctx)

	rc, err := NewRequestContext(ctx, s.identity, doc)
	if err != nil {
		return "", err
	}

	event, err := domain.NewEvent(doc, true)
	if err != nil {
		return "", err
	}
	out, err := event.ToDocument()
	if err != nil {
		return "", err
	}

	id, err := s.store.Create(ctx, rc.Scope(), out)
	if err != nil {
		log.Error("create_event", err)
		return "", err
	}

	log.Infof("create_event", "school=%s team=%s event_id=%s", rc.SchoolID(), rc.TeamID(), id)
	return id, nil
}

func (s *CalendarService) Update(ctx context.Context, doc domain.Document) error {
	log := logging.New(ctx)

	rc, err := NewRequestContext(ctx, s.identity, doc)
	if err != nil {
		return err
	}

	event, err := domain.NewEvent(doc, false)
	if err != nil {
		return err
	}
	out, err := event.ToDocument()
	if err != nil {
		return err
	}
	delete(out, "eventId")
	if len(out) == 0 {
		log.Info("update_event", "no fields to update for event "+event.ID())
		return nil
	}

	if err := s.store.Update(ctx, rc.Scope(), event.ID(), out); err != nil {
		log.Error("update_event", err)
		return err
	}

	log.Infof("update_event", "school=%s team=%s event_id=%s fields=%d", rc.SchoolID(), rc.TeamID(), event.ID(), len(out))
	return nil
}

func (s *CalendarService) Delete(ctx context.Context, doc domain.Document) error {
	log := logging.New(ctx)

	rc, err := NewRequestContext(ctx, s.identity, doc)
	if err != nil {
		return err
	}

	event, err := domain.NewEvent(doc, false)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, rc.Scope(), event.ID()); err != nil {
		log.Error("delete_event", err)
		return err
	}

	log.Infof("delete_event", "school=%s team=%s event_id=%s", rc.SchoolID(), rc.TeamID(), event.ID())
	return nil
}
