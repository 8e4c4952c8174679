package entity

import "time"

// Modos de numeración de facturas.
const (
	NumberingAutomatic = "automatic" // consecutivo asignado por el sistema
	NumberingManual    = "manual"    // número suministrado por el usuario, validado por unicidad
)

// Planes de suscripción.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Organization es el tenant: dueño de facturas, clientes y de la configuración
// de numeración. NextNumber es monótono y solo lo muta el asignador de
// consecutivos bajo actualización condicional (ver postgres.OrganizationRepo).
type Organization struct {
	ID            string
	Name          string
	Email         string
	Address       string
	NumberingMode string // NumberingAutomatic | NumberingManual
	InvoicePrefix string
	NextNumber    int64
	NumberWidth   int // ancho de relleno del consecutivo, ej. 4 -> INV-0005
	Plan          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SubscriptionUsage es lo que el Quota Gate necesita saber de una organización.
// Lo aporta el colaborador de suscripciones; el motor no lo calcula.
type SubscriptionUsage struct {
	Premium      bool
	InvoiceCount int
}
