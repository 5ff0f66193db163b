package response

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrAlertNotFound is returned when an alert ID resolves to nothing.
var ErrAlertNotFound = fmt.Errorf("alert not found")

// AlertStatus tracks an alert through its lifecycle:
// Active -> Acknowledged -> Resolved, or Active -> Suppressed.
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
	AlertSuppressed   AlertStatus = "suppressed"
)

// AlertType classifies what observation raised the alert.
type AlertType string

const (
	AlertTrustDegradation AlertType = "trust_degradation"
	AlertTrustCritical    AlertType = "trust_critical"
	AlertWeakLink         AlertType = "weak_link"
	AlertDependencyCycle  AlertType = "dependency_cycle"
	AlertExecutorFailure  AlertType = "executor_failure"
)

// Alert is a single raised observation about a component.
type Alert struct {
	AlertID     string      `json:"alert_id"`
	ComponentID string      `json:"component_id"`
	AlertType   AlertType   `json:"alert_type"`
	Severity    Severity    `json:"severity"`
	Message     string      `json:"message"`
	Status      AlertStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// AlertStore holds raised alerts in memory.
type AlertStore struct {
	alerts map[string]*Alert
	mu     sync.Mutex
}

// NewAlertStore creates an empty alert store.
func NewAlertStore() *AlertStore {
	return &AlertStore{alerts: make(map[string]*Alert)}
}

// Raise creates a new Active alert and returns its ID. If the component
// already has an active alert of the same type, that alert is refreshed
// instead of duplicated.
func (s *AlertStore) Raise(componentID string, alertType AlertType, severity Severity, message string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, alert := range s.alerts {
		if alert.ComponentID == componentID && alert.AlertType == alertType && alert.Status == AlertActive {
			alert.Severity = severity
			alert.Message = message
			alert.UpdatedAt = time.Now()
			return alert.AlertID
		}
	}

	now := time.Now()
	alert := &Alert{
		AlertID:     uuid.New().String(),
		ComponentID: componentID,
		AlertType:   alertType,
		Severity:    severity,
		Message:     message,
		Status:      AlertActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.alerts[alert.AlertID] = alert
	return alert.AlertID
}

// Acknowledge marks an active alert as acknowledged.
func (s *AlertStore) Acknowledge(alertID string) error {
	return s.transition(alertID, AlertAcknowledged)
}

// Resolve marks an alert as resolved.
func (s *AlertStore) Resolve(alertID string) error {
	return s.transition(alertID, AlertResolved)
}

// Suppress marks an alert as suppressed.
func (s *AlertStore) Suppress(alertID string) error {
	return s.transition(alertID, AlertSuppressed)
}

func (s *AlertStore) transition(alertID string, status AlertStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, exists := s.alerts[alertID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrAlertNotFound, alertID)
	}
	alert.Status = status
	alert.UpdatedAt = time.Now()
	return nil
}

// Get returns a copy of the alert.
func (s *AlertStore) Get(alertID string) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, exists := s.alerts[alertID]
	if !exists {
		return Alert{}, fmt.Errorf("%w: %s", ErrAlertNotFound, alertID)
	}
	return *alert, nil
}

// Active returns copies of all alerts still in the Active or
// Acknowledged state, ordered by creation time.
func (s *AlertStore) Active() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Alert, 0, len(s.alerts))
	for _, alert := range s.alerts {
		if alert.Status == AlertActive || alert.Status == AlertAcknowledged {
			active = append(active, *alert)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].AlertID < active[j].AlertID
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	return active
}
