package credential

import "time"

const (
	KindEmployee = "employee"
	KindVehicle  = "vehicle"
)

// Credential is one issued badge or vehicle permit. Rows are never
// physically deleted; deactivation is the terminal state, which keeps the
// full issuance history available for audits.
type Credential struct {
	ID             string `gorm:"primaryKey"`
	Kind           string `gorm:"index"`
	SubjectName    string
	Company        string
	ContactPhone   string
	IdentityNumber string
	ExpiryDate     time.Time `gorm:"type:date"`
	Deactivated    bool

	// employee badges only
	Position string
	Email    string

	// vehicle permits only
	PlateNumber  string
	VehicleModel string
	VehicleColor string

	PhotoRef  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidKind(kind string) bool {
	return kind == KindEmployee || kind == KindVehicle
}

// KindPrefix returns the id prefix for a kind (EMP-000123, VEH-000042).
func KindPrefix(kind string) string {
	if kind == KindVehicle {
		return "VEH"
	}
	return "EMP"
}
