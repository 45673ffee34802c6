package model

import (
	"strconv"
	"strings"
)

// Resource identifies one of the consumable resources held by a worker.
type Resource int

const (
	Dough Resource = iota
	Tomato
	Gruyere
	Ham
	Mushrooms
	Steak
	Eggplant
	GoatCheese
	ChiefLove
)

// ResourceCount is the number of resource kinds tracked per worker.
const ResourceCount = 9

const (
	// InitialStock is the per-resource count a worker starts with.
	InitialStock = 5
	// MaxStock caps every resource count.
	MaxStock = 10
)

var resourceNames = [ResourceCount]string{
	"Dough", "Tomato", "Gruyere", "Ham", "Mushrooms", "Steak", "Eggplant", "GoatCheese", "ChiefLove",
}

// Resources returns every resource in wire order.
func Resources() []Resource {
	ret := make([]Resource, ResourceCount)
	for i := range ret {
		ret[i] = Resource(i)
	}
	return ret
}

func (r Resource) String() string {
	if r < 0 || int(r) >= ResourceCount {
		return "Unknown"
	}
	return resourceNames[r]
}

// Stock holds one count per resource, indexed by Resource.
type Stock [ResourceCount]int

// FullStock returns a stock seeded with InitialStock of every resource.
func FullStock() Stock {
	var ret Stock
	for i := range ret {
		ret[i] = InitialStock
	}
	return ret
}

// Has returns true when every listed resource is available at least once.
func (s *Stock) Has(resources []Resource) bool {
	for _, r := range resources {
		if s[r] <= 0 {
			return false
		}
	}
	return true
}

// Missing lists the resources that are depleted.
func (s *Stock) Missing(resources []Resource) []Resource {
	var ret []Resource
	for _, r := range resources {
		if s[r] <= 0 {
			ret = append(ret, r)
		}
	}
	return ret
}

func (s Stock) String() string {
	builder := strings.Builder{}
	for i, count := range s {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(resourceNames[i])
		builder.WriteByte('=')
		builder.WriteString(strconv.Itoa(count))
	}
	return builder.String()
}
