// Package identity holds the caller identity handed to the order core by the
// authentication boundary. The boundary parses a role-tagged Identity once and
// narrows it into Customer or Seller; core operations take the narrowed type.
package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleSeller   Role = "SELLER"
)

var (
	ErrUnknownRole = errors.New("unknown role")
	ErrWrongRole   = errors.New("wrong role")
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleSeller:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Identity is a verified (id, role) assertion.
type Identity struct {
	ID   uuid.UUID
	Role Role
}

type Customer struct {
	ID uuid.UUID
}

type Seller struct {
	ID uuid.UUID
}

func (i Identity) Customer() (Customer, error) {
	if i.Role != RoleCustomer {
		return Customer{}, fmt.Errorf("%w: customer required, got %s", ErrWrongRole, i.Role)
	}
	return Customer{ID: i.ID}, nil
}

func (i Identity) Seller() (Seller, error) {
	if i.Role != RoleSeller {
		return Seller{}, fmt.Errorf("%w: seller required, got %s", ErrWrongRole, i.Role)
	}
	return Seller{ID: i.ID}, nil
}
