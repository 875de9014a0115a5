// Package usecase wraps store and gateway calls into user-triggered flows.
// This layer is the boundary where failures turn into notifications and
// boolean outcomes; presentation code never sees a raw error from here.
package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Krepchik11/geohod/internal/adapters/telegram"
	"github.com/Krepchik11/geohod/internal/domain"
	"github.com/Krepchik11/geohod/internal/store"
)

// EventManager orchestrates refresh, registration and sharing flows.
type EventManager struct {
	store     *store.Store
	gateway   domain.EventsGateway
	notifier  domain.Notifier
	clipboard domain.Clipboard
	haptic    domain.Haptic
	logger    *slog.Logger
	botName   string

	mu         sync.Mutex
	refreshing bool
	lastErr    error
}

// NewEventManager wires the orchestration layer.
func NewEventManager(
	st *store.Store,
	gateway domain.EventsGateway,
	notifier domain.Notifier,
	clipboard domain.Clipboard,
	haptic domain.Haptic,
	logger *slog.Logger,
	botName string,
) *EventManager {
	return &EventManager{
		store:     st,
		gateway:   gateway,
		notifier:  notifier,
		clipboard: clipboard,
		haptic:    haptic,
		logger:    logger,
		botName:   botName,
	}
}

// HandleRefresh pulls the next page of events. A refresh already in flight
// makes this a no-op; the in-flight flag is always cleared, whatever the
// outcome.
func (m *EventManager) HandleRefresh(ctx context.Context) bool {
	m.mu.Lock()
	if m.refreshing {
		m.mu.Unlock()
		return true
	}
	m.refreshing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.refreshing = false
		m.mu.Unlock()
	}()

	if err := m.store.FetchEvents(ctx); err != nil {
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		m.logger.Error("refresh failed", "error", err)
		m.notify(ctx, domain.NotificationError, "Ошибка", "Не удалось обновить список мероприятий")
		return false
	}
	return true
}

// CancelEventRegistration unregisters the user from the event and reports
// the outcome through a notification. It honors the store's advisory
// disabled-event flag: a second action on the same event while one is in
// flight is refused.
func (m *EventManager) CancelEventRegistration(ctx context.Context, eventID string) bool {
	if m.store.DisabledEventID() == eventID {
		return false
	}
	m.store.SetDisabledEventID(eventID)
	defer m.store.ClearDisabledEventID()

	if err := m.store.UnregisterFromEvent(ctx, eventID); err != nil {
		m.logger.Error("cancel registration failed", "event_id", eventID, "error", err)
		m.notify(ctx, domain.NotificationError, "Ошибка", "Не удалось отменить участие. Пожалуйста, попробуйте еще раз.")
		return false
	}
	m.notify(ctx, domain.NotificationSuccess, "Успешно", "Участие отменено")
	return true
}

// RegisterForEvent registers the user for the event, with the same advisory
// double-submit guard and notification boundary as cancellation.
func (m *EventManager) RegisterForEvent(ctx context.Context, eventID string) bool {
	if m.store.DisabledEventID() == eventID {
		return false
	}
	m.store.SetDisabledEventID(eventID)
	defer m.store.ClearDisabledEventID()

	if err := m.store.RegisterForEvent(ctx, eventID); err != nil {
		m.logger.Error("registration failed", "event_id", eventID, "error", err)
		m.notify(ctx, domain.NotificationError, "Ошибка", "Не удалось зарегистрироваться на мероприятие")
		return false
	}
	m.notify(ctx, domain.NotificationSuccess, "Успешно", "Вы зарегистрированы на мероприятие")
	return true
}

// CopyEventLink puts the event's deep link on the clipboard.
func (m *EventManager) CopyEventLink(ctx context.Context, eventID string) bool {
	link := telegram.EventLink(m.botName, eventID)
	if !m.clipboard.Copy(ctx, link) {
		m.logger.Error("copy link failed", "event_id", eventID)
		m.notify(ctx, domain.NotificationError, "Ошибка", "Не удалось скопировать ссылку")
		return false
	}
	m.notify(ctx, domain.NotificationSuccess, "Успешно", "Ссылка скопирована в буфер обмена")
	return true
}

// CreateEvent creates the event remotely and reflects it in the cache.
func (m *EventManager) CreateEvent(ctx context.Context, input domain.CreateEventInput) bool {
	ev, err := m.gateway.CreateEvent(ctx, input)
	if err != nil {
		m.logger.Error("create event failed", "error", err)
		m.notify(ctx, domain.NotificationError, "Ошибка", "Не удалось создать мероприятие")
		return false
	}
	m.store.AddEventLocally(ctx, *ev)
	m.notify(ctx, domain.NotificationSuccess, "Успешно", "Мероприятие создано")
	return true
}

// UpdateEvent applies the patch remotely, then merges it into the cached
// record without a full re-fetch.
func (m *EventManager) UpdateEvent(ctx context.Context, eventID string, patch domain.EventPatch) bool {
	if _, err := m.gateway.UpdateEvent(ctx, eventID, patch); err != nil {
		m.logger.Error("update event failed", "event_id", eventID, "error", err)
		m.notify(ctx, domain.NotificationError, "Ошибка", "Не удалось сохранить изменения")
		return false
	}
	if err := m.store.UpdateEventLocally(ctx, eventID, patch); err != nil {
		m.logger.Warn("updated event not in cache", "event_id", eventID)
	}
	m.notify(ctx, domain.NotificationSuccess, "Успешно", "Мероприятие обновлено")
	return true
}

// FinishEvent marks the event FINISHED.
func (m *EventManager) FinishEvent(ctx context.Context, eventID string) bool {
	status := domain.StatusFinished
	return m.UpdateEvent(ctx, eventID, domain.EventPatch{Status: &status})
}

// Err returns the last refresh error recorded at this layer.
func (m *EventManager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// notify dispatches a notification and matching haptic feedback. Delivery is
// best effort; failures are logged only.
func (m *EventManager) notify(ctx context.Context, kind, title, message string) {
	m.haptic.NotificationOccurred(kind)
	if err := m.notifier.Show(ctx, domain.Notification{Title: title, Message: message, Type: kind}); err != nil {
		m.logger.Warn("notification failed", "title", title, "error", err)
	}
}
