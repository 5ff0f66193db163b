package response

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrIncidentNotFound     = fmt.Errorf("incident not found")
	ErrRecoveryPlanNotFound = fmt.Errorf("recovery plan not found")
)

// Severity ranks an incident.
type Severity string

const (
	SeverityLow       Severity = "low"
	SeverityMedium    Severity = "medium"
	SeverityHigh      Severity = "high"
	SeverityCritical  Severity = "critical"
	SeverityEmergency Severity = "emergency"
)

// Status tracks an incident through its lifecycle:
// Open -> Investigating -> Mitigating -> {Resolved | Closed | Escalated}.
type Status string

const (
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusMitigating    Status = "mitigating"
	StatusResolved      Status = "resolved"
	StatusClosed        Status = "closed"
	StatusEscalated     Status = "escalated"
)

// ActionStatus tracks the outcome of one dispatched action.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completed"
	ActionFailed    ActionStatus = "failed"
)

// ActionRecord is the incident-history entry for one dispatched action.
type ActionRecord struct {
	RecordID   string       `json:"record_id"`
	ActionID   string       `json:"action_id"`
	ActionType ActionType   `json:"action_type"`
	ExecutedAt time.Time    `json:"executed_at"`
	Status     ActionStatus `json:"status"`
	Result     string       `json:"result"`
	Duration   time.Duration `json:"duration"`
}

// EscalationRecord is the incident-history entry for one escalation.
type EscalationRecord struct {
	EscalatedAt time.Time `json:"escalated_at"`
	EscalatedTo string    `json:"escalated_to"`
	Reason      string    `json:"reason"`
}

// Incident is the accumulating record of remediation taken against one
// component.
type Incident struct {
	IncidentID         string             `json:"incident_id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Severity           Severity           `json:"severity"`
	Status             Status             `json:"status"`
	AffectedComponents []string           `json:"affected_components"`
	ActionsTaken       []ActionRecord     `json:"actions_taken"`
	EscalationHistory  []EscalationRecord `json:"escalation_history"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	ResolvedAt         *time.Time         `json:"resolved_at,omitempty"`
}

// IncidentStore keeps the active incidents, keyed by component ID.
// One active incident per component: opening a second incident for the
// same component replaces the first. Appends and creation are serialized
// by a single store-wide lock.
type IncidentStore struct {
	incidents map[string]*Incident // component ID -> incident
	mu        sync.Mutex
}

// NewIncidentStore creates an empty incident store.
func NewIncidentStore() *IncidentStore {
	return &IncidentStore{incidents: make(map[string]*Incident)}
}

// Open creates a new Open incident for the component, replacing any
// existing one, and returns its ID.
func (s *IncidentStore) Open(componentID string, severity Severity, description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	incident := &Incident{
		IncidentID:         uuid.New().String(),
		Title:              fmt.Sprintf("trust incident - %s", componentID),
		Description:        description,
		Severity:           severity,
		Status:             StatusOpen,
		AffectedComponents: []string{componentID},
		ActionsTaken:       make([]ActionRecord, 0),
		EscalationHistory:  make([]EscalationRecord, 0),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.incidents[componentID] = incident
	return incident.IncidentID
}

// RecordAction appends an action record to the component's incident,
// opening one with the given severity when none exists.
func (s *IncidentStore) RecordAction(componentID string, severity Severity, record ActionRecord) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, exists := s.incidents[componentID]
	if !exists {
		now := time.Now()
		incident = &Incident{
			IncidentID:         uuid.New().String(),
			Title:              fmt.Sprintf("trust incident - %s", componentID),
			Description:        "opened by automated response",
			Severity:           severity,
			Status:             StatusOpen,
			AffectedComponents: []string{componentID},
			ActionsTaken:       make([]ActionRecord, 0),
			EscalationHistory:  make([]EscalationRecord, 0),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		s.incidents[componentID] = incident
	}

	if record.RecordID == "" {
		record.RecordID = uuid.New().String()
	}
	incident.ActionsTaken = append(incident.ActionsTaken, record)
	incident.UpdatedAt = time.Now()
	return incident.IncidentID
}

// Escalate appends an escalation record and marks the incident Escalated.
func (s *IncidentStore) Escalate(componentID string, record EscalationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, exists := s.incidents[componentID]
	if !exists {
		return fmt.Errorf("%w: no incident for component %s", ErrIncidentNotFound, componentID)
	}
	incident.EscalationHistory = append(incident.EscalationHistory, record)
	incident.Status = StatusEscalated
	incident.UpdatedAt = time.Now()
	return nil
}

// Resolve transitions the incident to Resolved and stamps ResolvedAt.
// Incidents never resolve automatically: trust recovery does not close
// them.
func (s *IncidentStore) Resolve(incidentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, incident := range s.incidents {
		if incident.IncidentID == incidentID {
			now := time.Now()
			incident.Status = StatusResolved
			incident.ResolvedAt = &now
			incident.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrIncidentNotFound, incidentID)
}

// SetStatus transitions the incident to the given status.
func (s *IncidentStore) SetStatus(incidentID string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, incident := range s.incidents {
		if incident.IncidentID == incidentID {
			incident.Status = status
			incident.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrIncidentNotFound, incidentID)
}

// Get returns a copy of the component's incident.
func (s *IncidentStore) Get(componentID string) (Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, exists := s.incidents[componentID]
	if !exists {
		return Incident{}, fmt.Errorf("%w: no incident for component %s", ErrIncidentNotFound, componentID)
	}
	return cloneIncident(incident), nil
}

// Active returns copies of all unresolved incidents.
func (s *IncidentStore) Active() []Incident {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Incident, 0, len(s.incidents))
	for _, incident := range s.incidents {
		if incident.Status == StatusResolved || incident.Status == StatusClosed {
			continue
		}
		active = append(active, cloneIncident(incident))
	}
	return active
}

// OpenCount returns the number of unresolved incidents.
func (s *IncidentStore) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, incident := range s.incidents {
		if incident.Status != StatusResolved && incident.Status != StatusClosed {
			count++
		}
	}
	return count
}

func cloneIncident(incident *Incident) Incident {
	clone := *incident
	clone.AffectedComponents = append([]string(nil), incident.AffectedComponents...)
	clone.ActionsTaken = append([]ActionRecord(nil), incident.ActionsTaken...)
	clone.EscalationHistory = append([]EscalationRecord(nil), incident.EscalationHistory...)
	return clone
}
