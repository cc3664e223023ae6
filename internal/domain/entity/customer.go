package entity

import "time"

// Customer representa un cliente del negocio (facturación).
type Customer struct {
	ID         string
	BusinessID string
	Name       string
	NIF        string // obligatorio para clientes profesionales
	RC         string
	Address    string
	Email      string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
