package auth

import (
	apperrors "github.com/jeetendra29gupta/pizza-order-api/internal/errors"
)

// Identity is the acting principal resolved from a verified access token.
// IsStaff is re-read from the user store per request, never taken from the
// token itself.
type Identity struct {
	Username string
	IsStaff  bool
}

// Operation enumerates the order operations subject to authorization.
type Operation string

const (
	OpPlaceOrder     Operation = "place_order"
	OpListOwnOrders  Operation = "list_own_orders"
	OpReadOwnOrder   Operation = "read_own_order"
	OpUpdateOwnOrder Operation = "update_own_order"
	OpListAllOrders  Operation = "list_all_orders"
	OpReadAnyOrder   Operation = "read_any_order"
	OpSetOrderStatus Operation = "set_order_status"
	OpDeleteOrder    Operation = "delete_order"
)

// selfScoped marks the operations an owning, non-staff identity may perform
// on its own resource. Status changes and deletion are deliberately absent:
// only staff may transition status or remove an order, so a customer cannot
// self-approve or erase one.
var selfScoped = map[Operation]bool{
	OpPlaceOrder:     true,
	OpListOwnOrders:  true,
	OpReadOwnOrder:   true,
	OpUpdateOwnOrder: true,
}

// Authorize decides whether identity may perform op on a resource owned by
// resourceOwner. It returns nil to allow and ErrForbidden to deny.
// Precedence: staff is allowed everything; a self-scoped operation is
// allowed when the identity owns the resource; everything else is denied.
func Authorize(identity Identity, op Operation, resourceOwner string) error {
	if identity.IsStaff {
		return nil
	}
	if selfScoped[op] && identity.Username == resourceOwner {
		return nil
	}
	return apperrors.ErrForbidden
}
