package rbac

import "github.com/clinicasys/clinica-api/internal/model"

// Capability is the closed set of role-gated screens and action groups.
type Capability string

const (
	CapDashboard      Capability = "dashboard"
	CapPatients       Capability = "patients"
	CapAppointments   Capability = "appointments"
	CapMedicalRecords Capability = "medical_records"
	CapBilling        Capability = "billing"
	CapReports        Capability = "reports"
	CapAdministration Capability = "administration"
	CapConfiguration  Capability = "configuration"
)

// permissions maps each capability to the roles allowed to use it. An empty
// set means any authenticated principal.
var permissions = map[Capability][]model.Role{
	CapDashboard:      {},
	CapPatients:       {model.RoleAdmin, model.RoleDoctor, model.RoleReceptionist},
	CapAppointments:   {model.RoleAdmin, model.RoleDoctor, model.RoleReceptionist},
	CapMedicalRecords: {model.RoleAdmin, model.RoleDoctor},
	CapBilling:        {model.RoleAdmin, model.RoleReceptionist},
	CapReports:        {model.RoleAdmin},
	CapAdministration: {model.RoleAdmin},
	CapConfiguration:  {model.RoleAdmin},
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Authorize reports whether role belongs to the required set. An empty set
// admits any authenticated principal. Pure; never errors.
func (s *Service) Authorize(role model.Role, required ...model.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// CanAccess reports whether role may use the capability. Unknown capabilities
// are denied.
func (s *Service) CanAccess(role model.Role, cap Capability) bool {
	required, ok := permissions[cap]
	if !ok {
		return false
	}
	return s.Authorize(role, required...)
}

// RolesFor exposes the permission table for a capability.
func (s *Service) RolesFor(cap Capability) []model.Role {
	required, ok := permissions[cap]
	if !ok {
		return nil
	}
	out := make([]model.Role, len(required))
	copy(out, required)
	return out
}
