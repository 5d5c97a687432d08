package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/jeetendra29gupta/pizza-order-api/internal/errors"
)

var allOperations = []Operation{
	OpPlaceOrder,
	OpListOwnOrders,
	OpReadOwnOrder,
	OpUpdateOwnOrder,
	OpListAllOrders,
	OpReadAnyOrder,
	OpSetOrderStatus,
	OpDeleteOrder,
}

func TestAuthorize_StaffAllowedEverything(t *testing.T) {
	staff := Identity{Username: "boss", IsStaff: true}

	for _, op := range allOperations {
		for _, owner := range []string{"boss", "alice", ""} {
			assert.NoError(t, Authorize(staff, op, owner), "op=%s owner=%q", op, owner)
		}
	}
}

func TestAuthorize_OwnerSelfScoped(t *testing.T) {
	alice := Identity{Username: "alice", IsStaff: false}

	tests := []struct {
		name    string
		op      Operation
		owner   string
		allowed bool
	}{
		{name: "place own order", op: OpPlaceOrder, owner: "alice", allowed: true},
		{name: "list own orders", op: OpListOwnOrders, owner: "alice", allowed: true},
		{name: "read own order", op: OpReadOwnOrder, owner: "alice", allowed: true},
		{name: "update own order", op: OpUpdateOwnOrder, owner: "alice", allowed: true},
		{name: "read another user's order", op: OpReadOwnOrder, owner: "bob", allowed: false},
		{name: "update another user's order", op: OpUpdateOwnOrder, owner: "bob", allowed: false},
		{name: "list all orders", op: OpListAllOrders, owner: "", allowed: false},
		{name: "read any order", op: OpReadAnyOrder, owner: "alice", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(alice, tt.op, tt.owner)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrForbidden)
			}
		})
	}
}

// Status change and delete are never self-scoped; ownership does not help.
func TestAuthorize_StatusAndDeleteStaffExclusive(t *testing.T) {
	alice := Identity{Username: "alice", IsStaff: false}

	assert.ErrorIs(t, Authorize(alice, OpSetOrderStatus, "alice"), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(alice, OpDeleteOrder, "alice"), apperrors.ErrForbidden)
}
