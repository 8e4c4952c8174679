package entity

import "time"

// User pertenece a una organización. El motor de facturación confía en el
// contexto (user_id, organization_id) que la capa de sesión pone en cada
// petición; este tipo existe solo para el login.
type User struct {
	ID             string
	OrganizationID string
	Email          string
	PasswordHash   string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
