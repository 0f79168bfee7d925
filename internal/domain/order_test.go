package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextDeliveryStatus(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		ok      bool
	}{
		{"processing advances to shipped", DeliveryProcessing, DeliveryShipped, true},
		{"shipped advances to delivered", DeliveryShipped, DeliveryDelivered, true},
		{"delivered is terminal", DeliveryDelivered, "", false},
		{"unknown status", "canceled", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextDeliveryStatus(tt.current)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.next, next)
		})
	}
}

func TestOrder_IsPaid(t *testing.T) {
	order := Order{PaymentInfo: PaymentInfo{Status: PaymentNotPaid}}
	assert.False(t, order.IsPaid())

	order.PaymentInfo.Status = PaymentPaid
	assert.True(t, order.IsPaid())
}

func TestUser_IsAdmin(t *testing.T) {
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleSuperAdmin}).IsAdmin())
}
