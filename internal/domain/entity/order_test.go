package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la máquina de estados de pedido.
//
// Tabla: pending -> dispatched -> delivered; pending -> cancelled.
// delivered y cancelled son terminales. Cualquier otra arista es ilegal.
// ──────────────────────────────────────────────────────────────────────────────

func newPedido(status string) *entity.Order {
	return &entity.Order{
		ID:           "order-1",
		ProductID:    "prod-1",
		WarehouseID:  "wh-1",
		Quantity:     decimal.NewFromInt(3),
		CustomerName: "Cliente de Prueba",
		Status:       status,
	}
}

func TestOrder_TransicionesValidas(t *testing.T) {
	now := time.Now()
	casos := []struct {
		desde, hacia string
	}{
		{entity.OrderPending, entity.OrderDispatched},
		{entity.OrderPending, entity.OrderCancelled},
		{entity.OrderDispatched, entity.OrderDelivered},
	}
	for _, c := range casos {
		o := newPedido(c.desde)
		require.True(t, o.CanTransition(c.hacia), "%s -> %s debe ser válida", c.desde, c.hacia)
		require.NoError(t, o.Transition(c.hacia, now))
		assert.Equal(t, c.hacia, o.Status)
		assert.Equal(t, now, o.UpdatedAt, "la transición debe actualizar UpdatedAt")
	}
}

func TestOrder_TransicionesInvalidas(t *testing.T) {
	now := time.Now()
	casos := []struct {
		desde, hacia string
	}{
		{entity.OrderPending, entity.OrderDelivered},    // sin saltos
		{entity.OrderDispatched, entity.OrderCancelled}, // despachado no se cancela
		{entity.OrderDispatched, entity.OrderPending},   // sin retrocesos
		{entity.OrderDelivered, entity.OrderDispatched},
		{entity.OrderDelivered, entity.OrderCancelled},
		{entity.OrderCancelled, entity.OrderPending},
		{entity.OrderCancelled, entity.OrderDispatched},
	}
	for _, c := range casos {
		o := newPedido(c.desde)
		assert.False(t, o.CanTransition(c.hacia), "%s -> %s no debe ser válida", c.desde, c.hacia)
		err := o.Transition(c.hacia, now)
		require.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s", c.desde, c.hacia)
		assert.Equal(t, c.desde, o.Status, "una transición rechazada no debe mutar el estado")
	}
}

func TestOrder_EstadosTerminales(t *testing.T) {
	assert.False(t, newPedido(entity.OrderPending).Terminal())
	assert.False(t, newPedido(entity.OrderDispatched).Terminal())
	assert.True(t, newPedido(entity.OrderDelivered).Terminal())
	assert.True(t, newPedido(entity.OrderCancelled).Terminal())
}
