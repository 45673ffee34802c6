package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationMillis(t *testing.T) {
	testCases := []struct {
		name       string
		kind       Kind
		multiplier float64
		expected   int
	}{
		{name: "margarita", kind: Margarita, multiplier: 1, expected: 1000},
		{name: "regina", kind: Regina, multiplier: 1, expected: 2000},
		{name: "americana", kind: Americana, multiplier: 1, expected: 2000},
		{name: "fantasia", kind: Fantasia, multiplier: 1, expected: 4000},
		{name: "fractional multiplier", kind: Fantasia, multiplier: 0.5, expected: 2000},
		{name: "truncated", kind: Margarita, multiplier: 0.0015, expected: 1},
		{name: "scaled up", kind: Regina, multiplier: 2.5, expected: 5000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DurationMillis(tc.kind, tc.multiplier))
		})
	}
}

func TestOrder_Tasks(t *testing.T) {
	order, err := NewOrder(Regina, S, 3)
	assert.NoError(t, err)
	tasks := order.Tasks(1.0)
	assert.Len(t, tasks, 3)
	for _, task := range tasks {
		assert.Equal(t, Regina, task.Kind)
		assert.Equal(t, S, task.Size)
		assert.Equal(t, 2000, task.DurationMillis)
		assert.False(t, task.Completed)
		assert.Equal(t, "Regina S", task.Name())
	}
	tasks[0].Completed = true
	assert.False(t, tasks[1].Completed)
}

func TestNewOrder_Validation(t *testing.T) {
	testCases := []struct {
		name     string
		kind     Kind
		size     Size
		quantity int
		valid    bool
	}{
		{name: "min quantity", kind: Margarita, size: S, quantity: 1, valid: true},
		{name: "max quantity", kind: Fantasia, size: XXL, quantity: 99, valid: true},
		{name: "zero quantity", kind: Margarita, size: S, quantity: 0},
		{name: "too many", kind: Margarita, size: S, quantity: 100},
		{name: "unknown kind", kind: Kind(3), size: S, quantity: 1},
		{name: "unknown size", kind: Regina, size: Size(3), quantity: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder(tc.kind, tc.size, tc.quantity)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsKind(err, ErrorKindParse))
		})
	}
}

func TestParseKindAndSize(t *testing.T) {
	kind, err := ParseKind("rEgInA")
	assert.NoError(t, err)
	assert.Equal(t, Regina, kind)

	_, err = ParseKind("hawaiian")
	assert.Error(t, err)

	for _, size := range Sizes() {
		parsed, err := ParseSize(size.String())
		assert.NoError(t, err)
		assert.Equal(t, size, parsed)
	}
	_, err = ParseSize("XXXL")
	assert.Error(t, err)
}

func TestKind_Resources(t *testing.T) {
	assert.Equal(t, []Resource{Dough, Tomato, Gruyere}, Margarita.Resources())
	assert.Equal(t, []Resource{Dough, Tomato, Gruyere, Ham, Mushrooms}, Regina.Resources())
	assert.Equal(t, []Resource{Dough, Tomato, Gruyere, Steak}, Americana.Resources())
	assert.Equal(t, []Resource{Dough, Tomato, Eggplant, GoatCheese, ChiefLove}, Fantasia.Resources())
	assert.Nil(t, Kind(0).Resources())
}

func TestStock(t *testing.T) {
	stock := FullStock()
	for _, count := range stock {
		assert.Equal(t, InitialStock, count)
	}
	stock[Ham] = 0
	assert.False(t, stock.Has(Regina.Resources()))
	assert.True(t, stock.Has(Margarita.Resources()))
	assert.Equal(t, []Resource{Ham}, stock.Missing(Regina.Resources()))
}

func TestFallbackSnapshot(t *testing.T) {
	snapshot := FallbackSnapshot(7, 3)
	assert.Equal(t, 7, snapshot.WorkerID)
	assert.Equal(t, 0, snapshot.ActiveCount)
	assert.Equal(t, 0, snapshot.QueueLength)
	assert.Equal(t, 3, snapshot.TotalCapacity)
	assert.Equal(t, 6, snapshot.MaxCapacity)
	assert.True(t, snapshot.Fallback)
	assert.True(t, snapshot.IsIdle())
	for _, count := range snapshot.Stock {
		assert.Equal(t, 5, count)
	}
}
