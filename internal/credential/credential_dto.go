package credential

import "time"

const dateLayout = "2006-01-02"

type CreateCredentialRequest struct {
	Kind           string `json:"kind" binding:"required,oneof=employee vehicle"`
	SubjectName    string `json:"subject_name"`
	Company        string `json:"company"`
	ContactPhone   string `json:"contact_phone"`
	IdentityNumber string `json:"identity_number"`
	ExpiryDate     string `json:"expiry_date"`

	Position string `json:"position,omitempty"`
	Email    string `json:"email,omitempty"`

	PlateNumber  string `json:"plate_number,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehicleColor string `json:"vehicle_color,omitempty"`

	PhotoRef string `json:"photo_ref,omitempty"`
}

// UpdateCredentialRequest carries no id or kind field: both are immutable,
// so a client attempting to change them is ignored by construction rather
// than rejected.
type UpdateCredentialRequest struct {
	SubjectName    string `json:"subject_name"`
	Company        string `json:"company"`
	ContactPhone   string `json:"contact_phone"`
	IdentityNumber string `json:"identity_number"`
	ExpiryDate     string `json:"expiry_date"`

	Position string `json:"position,omitempty"`
	Email    string `json:"email,omitempty"`

	PlateNumber  string `json:"plate_number,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehicleColor string `json:"vehicle_color,omitempty"`

	PhotoRef string `json:"photo_ref,omitempty"`
}

type CredentialResponse struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	SubjectName    string `json:"subject_name"`
	Company        string `json:"company"`
	ContactPhone   string `json:"contact_phone"`
	IdentityNumber string `json:"identity_number"`
	ExpiryDate     string `json:"expiry_date"`
	Deactivated    bool   `json:"deactivated"`
	Status         string `json:"status"`

	Position string `json:"position,omitempty"`
	Email    string `json:"email,omitempty"`

	PlateNumber  string `json:"plate_number,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehicleColor string `json:"vehicle_color,omitempty"`

	PhotoRef string `json:"photo_ref,omitempty"`
}

type StatsResponse struct {
	TotalEmployees int `json:"total_employees"`
	TotalVehicles  int `json:"total_vehicles"`
	Valid          int `json:"valid"`
	ExpiringSoon   int `json:"expiring_soon"`
}

// NewResponse annotates a stored record with its live status as of asOf.
func NewResponse(c Credential, asOf time.Time) CredentialResponse {
	return CredentialResponse{
		ID:             c.ID,
		Kind:           c.Kind,
		SubjectName:    c.SubjectName,
		Company:        c.Company,
		ContactPhone:   c.ContactPhone,
		IdentityNumber: c.IdentityNumber,
		ExpiryDate:     c.ExpiryDate.Format(dateLayout),
		Deactivated:    c.Deactivated,
		Status:         string(EvaluateStatus(&c, asOf)),
		Position:       c.Position,
		Email:          c.Email,
		PlateNumber:    c.PlateNumber,
		VehicleModel:   c.VehicleModel,
		VehicleColor:   c.VehicleColor,
		PhotoRef:       c.PhotoRef,
	}
}

func newListResponse(creds []Credential, asOf time.Time) []CredentialResponse {
	res := make([]CredentialResponse, len(creds))
	for i, c := range creds {
		res[i] = NewResponse(c, asOf)
	}
	return res
}

// fields flattens a request into the set the validator walks in fixed order.
type credentialFields struct {
	SubjectName    string
	Company        string
	ContactPhone   string
	IdentityNumber string
	ExpiryDate     string
	Position       string
	Email          string
	PlateNumber    string
	VehicleModel   string
	VehicleColor   string
}

func (r CreateCredentialRequest) fields() credentialFields {
	return credentialFields{
		SubjectName:    r.SubjectName,
		Company:        r.Company,
		ContactPhone:   r.ContactPhone,
		IdentityNumber: r.IdentityNumber,
		ExpiryDate:     r.ExpiryDate,
		Position:       r.Position,
		Email:          r.Email,
		PlateNumber:    r.PlateNumber,
		VehicleModel:   r.VehicleModel,
		VehicleColor:   r.VehicleColor,
	}
}

func (r UpdateCredentialRequest) fields() credentialFields {
	return credentialFields{
		SubjectName:    r.SubjectName,
		Company:        r.Company,
		ContactPhone:   r.ContactPhone,
		IdentityNumber: r.IdentityNumber,
		ExpiryDate:     r.ExpiryDate,
		Position:       r.Position,
		Email:          r.Email,
		PlateNumber:    r.PlateNumber,
		VehicleModel:   r.VehicleModel,
		VehicleColor:   r.VehicleColor,
	}
}
