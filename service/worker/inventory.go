package worker

import (
	"sync"

	"github.com/viant/brigade/model"
)

// Inventory holds the worker resources. It is safe for concurrent use.
type Inventory struct {
	mu    sync.Mutex
	stock model.Stock
}

// NewInventory creates an inventory seeded with model.InitialStock of every resource
func NewInventory() *Inventory {
	return &Inventory{stock: model.FullStock()}
}

// Reserve consumes one unit of every listed resource, or nothing when any of
// them is depleted. Check and consume happen under one lock acquisition.
func (i *Inventory) Reserve(resources []model.Resource) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.stock.Has(resources) {
		return false
	}
	for _, r := range resources {
		i.stock[r]--
	}
	return true
}

// Replenish adds one unit of every resource, capped at model.MaxStock
func (i *Inventory) Replenish() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for r := range i.stock {
		if i.stock[r] < model.MaxStock {
			i.stock[r]++
		}
	}
}

// Stock returns a copy of the current counts
func (i *Inventory) Stock() model.Stock {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stock
}
