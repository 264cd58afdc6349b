package domain

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^WB-[0-9A-F]{10}$`)
	seen := map[string]bool{}

	for i := 0; i < 100; i++ {
		number := NewOrderNumber()
		assert.Regexp(t, pattern, number)
		assert.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
}

func TestComputeTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: 100, Price: decimal.RequireFromString("10.00"), Quantity: 2},
			{ProductID: 200, Price: decimal.RequireFromString("5.00"), Quantity: 1},
		},
	}

	total := order.ComputeTotal()

	require.True(t, total.Equal(decimal.RequireFromString("25.00")), "got %s", total)
}

func TestComputeTotalEmptyOrder(t *testing.T) {
	order := &Order{}

	assert.True(t, order.ComputeTotal().IsZero())
}

func TestComputeTotalDecimalExact(t *testing.T) {
	// 0.1+0.2 这类二进制浮点会出错的组合，decimal 必须精确
	order := &Order{
		Items: []OrderItem{
			{Price: decimal.RequireFromString("0.10"), Quantity: 1},
			{Price: decimal.RequireFromString("0.20"), Quantity: 1},
		},
	}

	assert.True(t, order.ComputeTotal().Equal(decimal.RequireFromString("0.30")))
}

func TestLineTotal(t *testing.T) {
	item := OrderItem{Price: decimal.RequireFromString("19.99"), Quantity: 3}

	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("59.97")))
}
