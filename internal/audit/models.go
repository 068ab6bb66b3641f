package audit

import (
	"time"

	id "medid/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers events with legal or regulatory significance:
	// account creation and deletion, certification decisions.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring:
	// failed logins, logouts.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	EventIdentityRegistered     AuditEvent = "identity_registered"
	EventLoginSucceeded         AuditEvent = "login_succeeded"
	EventLoginFailed            AuditEvent = "login_failed"
	EventLoginLocked            AuditEvent = "login_locked"
	EventLogout                 AuditEvent = "logout"
	EventCertificationSubmitted AuditEvent = "certification_submitted"
	EventCertificationUpdated   AuditEvent = "certification_updated"
	EventCertificationDeleted   AuditEvent = "certification_deleted"
	EventPatientAccountDeleted  AuditEvent = "patient_account_deleted"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventIdentityRegistered:     CategoryCompliance,
	EventPatientAccountDeleted:  CategoryCompliance,
	EventCertificationUpdated:   CategoryCompliance,
	EventCertificationDeleted:   CategoryCompliance,
	EventLoginFailed:            CategorySecurity,
	EventLoginLocked:            CategorySecurity,
	EventLogout:                 CategorySecurity,
	EventLoginSucceeded:         CategoryOperations,
	EventCertificationSubmitted: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Action    AuditEvent    `json:"action"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// IdentityID is the identity affected. Empty for failed logins on an
	// unknown account.
	IdentityID id.IdentityID `json:"identity_id"`
	Role       id.Role       `json:"role,omitempty"`
	// ActorID is who performed the action when different from IdentityID,
	// e.g. the administrator deleting a patient account.
	ActorID   string `json:"actor_id,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Device    string `json:"device,omitempty"`
	// DeviceFingerprint is a stable hash of browser family, major version
	// and OS; empty when fingerprinting is disabled.
	DeviceFingerprint string `json:"device_fingerprint,omitempty"`
	ClientIP          string `json:"client_ip,omitempty"`
	RequestID         string `json:"request_id,omitempty"`
}
