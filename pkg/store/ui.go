package store

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/tutorchat/client/pkg/domain"
	"github.com/tutorchat/client/pkg/logger"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	defaultFontSize = 14
)

// Scheduler runs fn once after d. Tests substitute a fake; the default wraps
// time.AfterFunc.
type Scheduler func(d time.Duration, fn func())

// ApplyFunc pushes theme and font size to the presentation layer. It is the
// one deliberate side effect outside the state graph.
type ApplyFunc func(theme string, fontSize int)

// UIStore holds presentation preferences and the transient notification list.
type UIStore struct {
	storage  SettingsStorage
	schedule Scheduler
	apply    ApplyFunc
	now      func() time.Time

	mu               sync.RWMutex
	theme            string
	fontSize         int
	sidebarCollapsed bool
	onboardingSeen   bool
	notifications    []domain.Notification
	lastID           int64
}

func NewUIStore(storage SettingsStorage, schedule Scheduler, apply ApplyFunc) *UIStore {
	if schedule == nil {
		schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if apply == nil {
		apply = func(string, int) {}
	}
	return &UIStore{
		storage:  storage,
		schedule: schedule,
		apply:    apply,
		now:      time.Now,
		theme:    ThemeLight,
		fontSize: defaultFontSize,
	}
}

// LoadSettings restores persisted presentation preferences at process start.
func (s *UIStore) LoadSettings(ctx context.Context) {
	theme := s.readSetting(ctx, domain.StorageKeyTheme, ThemeLight)
	fontSize := defaultFontSize
	if raw := s.readSetting(ctx, domain.StorageKeyFontSize, ""); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			fontSize = parsed
		}
	}
	onboardingSeen := s.readSetting(ctx, domain.StorageKeyOnboardingSeen, "") == "true"

	s.mu.Lock()
	s.theme = theme
	s.fontSize = fontSize
	s.onboardingSeen = onboardingSeen
	s.mu.Unlock()

	s.apply(theme, fontSize)
}

// AddNotification stores a notification and schedules its removal after its
// duration. Callers must set Duration explicitly: zero means sticky, never
// auto-removed, including the zero value of a Notification built without one.
// NotifySuccess and NotifyError supply the default lifetimes. The id is
// time-based and unique for the process lifetime.
func (s *UIStore) AddNotification(n domain.Notification) int64 {
	s.mu.Lock()
	id := s.now().UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	n.ID = id
	s.notifications = append(s.notifications, n)
	s.mu.Unlock()

	if n.Duration > 0 {
		s.schedule(n.Duration, func() { s.RemoveNotification(id) })
	}

	return id
}

// NotifySuccess adds a success notification with the default lifetime.
func (s *UIStore) NotifySuccess(title, body string) int64 {
	return s.AddNotification(domain.Notification{
		Kind:     domain.NotificationSuccess,
		Title:    title,
		Body:     body,
		Duration: domain.DefaultNotificationDuration,
	})
}

// NotifyError adds an error notification; errors linger longer.
func (s *UIStore) NotifyError(title, body string) int64 {
	return s.AddNotification(domain.Notification{
		Kind:     domain.NotificationError,
		Title:    title,
		Body:     body,
		Duration: domain.ErrorNotificationDuration,
	})
}

func (s *UIStore) RemoveNotification(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = lo.Filter(s.notifications, func(n domain.Notification, _ int) bool { return n.ID != id })
}

func (s *UIStore) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// SetTheme dual-writes: store state plus durable storage, then pushes the
// change to the presentation layer.
func (s *UIStore) SetTheme(ctx context.Context, theme string) {
	s.mu.Lock()
	s.theme = theme
	fontSize := s.fontSize
	s.mu.Unlock()

	s.writeSetting(ctx, domain.StorageKeyTheme, theme)
	s.apply(theme, fontSize)
}

func (s *UIStore) SetFontSize(ctx context.Context, size int) {
	s.mu.Lock()
	s.fontSize = size
	theme := s.theme
	s.mu.Unlock()

	s.writeSetting(ctx, domain.StorageKeyFontSize, strconv.Itoa(size))
	s.apply(theme, size)
}

func (s *UIStore) SetSidebarCollapsed(collapsed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarCollapsed = collapsed
}

func (s *UIStore) MarkOnboardingSeen(ctx context.Context) {
	s.mu.Lock()
	s.onboardingSeen = true
	s.mu.Unlock()

	s.writeSetting(ctx, domain.StorageKeyOnboardingSeen, "true")
}

func (s *UIStore) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *UIStore) FontSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fontSize
}

func (s *UIStore) SidebarCollapsed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sidebarCollapsed
}

func (s *UIStore) OnboardingSeen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onboardingSeen
}

func (s *UIStore) readSetting(ctx context.Context, key, fallback string) string {
	value, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "reading setting", "key", key, logger.Err(err))
		return fallback
	}
	if !ok {
		return fallback
	}
	return value
}

func (s *UIStore) writeSetting(ctx context.Context, key, value string) {
	if err := s.storage.Set(ctx, key, value); err != nil {
		slog.WarnContext(ctx, "persisting setting", "key", key, logger.Err(err))
	}
}
