package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/brigade/model"
)

func TestInventory_Reserve(t *testing.T) {
	testCases := []struct {
		name     string
		kind     model.Kind
		expected model.Stock
	}{
		{name: "margarita", kind: model.Margarita, expected: model.Stock{4, 4, 4, 5, 5, 5, 5, 5, 5}},
		{name: "regina", kind: model.Regina, expected: model.Stock{4, 4, 4, 4, 4, 5, 5, 5, 5}},
		{name: "americana", kind: model.Americana, expected: model.Stock{4, 4, 4, 5, 5, 4, 5, 5, 5}},
		{name: "fantasia", kind: model.Fantasia, expected: model.Stock{4, 4, 5, 5, 5, 5, 4, 4, 4}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inventory := NewInventory()
			assert.True(t, inventory.Reserve(tc.kind.Resources()))
			assert.Equal(t, tc.expected, inventory.Stock())
		})
	}
}

func TestInventory_Contention(t *testing.T) {
	inventory := NewInventory()
	var reserved atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if inventory.Reserve(model.Regina.Resources()) {
				reserved.Add(1)
			}
			for _, count := range inventory.Stock() {
				assert.GreaterOrEqual(t, count, 0)
				assert.LessOrEqual(t, count, model.MaxStock)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, model.InitialStock, reserved.Load())
	stock := inventory.Stock()
	for _, r := range model.Regina.Resources() {
		assert.Equal(t, 0, stock[r])
	}
	assert.False(t, inventory.Reserve(model.Margarita.Resources()))
}

func TestInventory_Replenish(t *testing.T) {
	inventory := NewInventory()
	for i := 0; i < model.InitialStock; i++ {
		assert.True(t, inventory.Reserve(model.Fantasia.Resources()))
	}
	inventory.Replenish()
	stock := inventory.Stock()
	assert.Equal(t, 1, stock[model.Dough])
	assert.Equal(t, 6, stock[model.Gruyere])

	for i := 0; i < 20; i++ {
		inventory.Replenish()
	}
	for _, count := range inventory.Stock() {
		assert.Equal(t, model.MaxStock, count)
	}
}

func TestQueue(t *testing.T) {
	queue := NewQueue(2)
	first := model.NewTask(model.Regina, model.S, 1)
	second := model.NewTask(model.Fantasia, model.M, 1)
	assert.True(t, queue.Push(first))
	assert.True(t, queue.Push(second))
	assert.False(t, queue.Push(model.NewTask(model.Margarita, model.L, 1)))
	assert.Equal(t, 2, queue.Len())
	assert.Same(t, first, queue.Pop())
	assert.Same(t, second, queue.Pop())
	assert.Nil(t, queue.Pop())
	assert.Equal(t, 0, queue.Len())
}
