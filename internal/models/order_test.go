package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		in   string
		want OrderStatus
		ok   bool
	}{
		{"novo", OrderStatusNew, true},
		{"ACEITO", OrderStatusAccepted, true},
		{" preparing ", OrderStatusPreparing, true},
		{"delivered", OrderStatusDelivered, true},
		{"canceled", OrderStatusCancelled, true},
		{"cancelado", OrderStatusCancelled, true},
		{"", "", false},
		{"shipped", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseOrderStatus(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusNew.CanTransitionTo(OrderStatusAccepted))
	assert.True(t, OrderStatusNew.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusNew.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusAccepted.CanTransitionTo(OrderStatusPreparing))
	assert.True(t, OrderStatusPreparing.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusAccepted.CanTransitionTo(OrderStatusNew))
	assert.False(t, OrderStatusNew.CanTransitionTo(OrderStatusNew))

	for _, s := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, s.IsTerminal())
		assert.False(t, s.CanTransitionTo(OrderStatusNew))
	}
	assert.False(t, OrderStatusPreparing.IsTerminal())
}
