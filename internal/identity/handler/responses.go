package handler

import (
	"medid/internal/identity/models"
	id "medid/pkg/domain"
)

type registrationResponse struct {
	IdentityID             id.IdentityID        `json:"identity_id"`
	Role                   id.Role              `json:"role"`
	PatientID              *id.PatientID        `json:"patient_id,omitempty"`
	MedicalProfileID       *id.MedicalProfileID `json:"medical_profile_id,omitempty"`
	CertificationRequestID *id.RequestID        `json:"certification_request_id,omitempty"`
	DocumentURL            string               `json:"document_url,omitempty"`
}

func toRegistrationResponse(r *models.RegistrationResult) registrationResponse {
	resp := registrationResponse{
		IdentityID:  r.IdentityID,
		Role:        r.Role,
		DocumentURL: r.DocumentURL,
	}
	if !r.PatientID.IsNil() {
		resp.PatientID = &r.PatientID
	}
	if !r.MedicalProfileID.IsNil() {
		resp.MedicalProfileID = &r.MedicalProfileID
	}
	if !r.RequestID.IsNil() {
		resp.CertificationRequestID = &r.RequestID
	}
	return resp
}

type patientResponse struct {
	ID          id.PatientID  `json:"id"`
	IdentityID  id.IdentityID `json:"identity_id"`
	DisplayName string        `json:"display_name"`
	Contact     string        `json:"contact"`
	Age         *int          `json:"age,omitempty"`
	Weight      *float64      `json:"weight,omitempty"`
	Height      *float64      `json:"height,omitempty"`
}

type patientsResponse struct {
	Patients []patientResponse `json:"patients"`
}

func toPatientResponse(p *models.PatientView) patientResponse {
	return patientResponse{
		ID:          p.ID,
		IdentityID:  p.IdentityID,
		DisplayName: p.DisplayName,
		Contact:     p.Contact,
		Age:         p.Age,
		Weight:      p.Weight,
		Height:      p.Height,
	}
}
