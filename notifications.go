package coreterm

// NotificationPayload carries the decoded fields of an OSC 99 desktop
// notification request. Fields follow kitty's desktop notification
// protocol (i=id, d=done, p=payload type, e=encoding, a=actions, ...).
type NotificationPayload struct {
	ID          string
	Done        bool
	PayloadType string
	Encoding    string
	Actions     []string
	TrackClose  bool
	Timeout     int
	AppName     string
	Type        string
	IconName    string
	IconCacheID string
	Sound       string
	Urgency     int
	Occasion    string
	Data        []byte
}

// NotificationProvider delivers desktop notifications to the host
// environment. Notify's return value is written back to the child verbatim;
// an empty string sends no response (used for everything except queries).
type NotificationProvider interface {
	Notify(payload *NotificationPayload) string
}

// NoopNotification discards notifications and never replies to queries.
type NoopNotification struct{}

func (NoopNotification) Notify(payload *NotificationPayload) string { return "" }

var _ NotificationProvider = NoopNotification{}

// WithNotification sets the handler for desktop notifications (OSC 99).
func WithNotification(p NotificationProvider) Option {
	return func(t *Terminal) {
		t.notificationProvider = p
	}
}

// SetNotificationProvider updates the desktop notification handler at
// runtime. Passing nil silences notifications without panicking.
func (t *Terminal) SetNotificationProvider(p NotificationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationProvider = p
}

// NotificationProvider returns the currently configured handler.
func (t *Terminal) NotificationProvider() NotificationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notificationProvider
}

// DesktopNotification processes a decoded OSC 99 payload, forwarding it to
// the configured provider and writing back any query response.
func (t *Terminal) DesktopNotification(payload *NotificationPayload) {
	if t.middleware != nil && t.middleware.DesktopNotification != nil {
		t.middleware.DesktopNotification(payload, t.desktopNotificationInternal)
		return
	}
	t.desktopNotificationInternal(payload)
}

func (t *Terminal) desktopNotificationInternal(payload *NotificationPayload) {
	t.mu.RLock()
	provider := t.notificationProvider
	t.mu.RUnlock()

	if provider == nil {
		return
	}

	response := provider.Notify(payload)
	if response != "" {
		t.writeResponseString(response)
	}
}
