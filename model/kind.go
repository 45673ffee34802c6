package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies a product kind. Values are bit flags so they match the
// integers used on the wire.
type Kind int

const (
	Regina    Kind = 1
	Margarita Kind = 2
	Americana Kind = 4
	Fantasia  Kind = 8
)

// Kinds returns every product kind in menu order.
func Kinds() []Kind {
	return []Kind{Regina, Margarita, Americana, Fantasia}
}

var kindNames = map[Kind]string{
	Regina:    "Regina",
	Margarita: "Margarita",
	Americana: "Americana",
	Fantasia:  "Fantasia",
}

// base preparation time, multiplied by the configured speed multiplier
var kindDurations = map[Kind]time.Duration{
	Margarita: time.Second,
	Regina:    2 * time.Second,
	Americana: 2 * time.Second,
	Fantasia:  4 * time.Second,
}

var kindResources = map[Kind][]Resource{
	Margarita: {Dough, Tomato, Gruyere},
	Regina:    {Dough, Tomato, Gruyere, Ham, Mushrooms},
	Americana: {Dough, Tomato, Gruyere, Steak},
	Fantasia:  {Dough, Tomato, Eggplant, GoatCheese, ChiefLove},
}

// IsValid returns true for one of the four known kinds.
func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// BaseDuration returns the unscaled preparation time.
func (k Kind) BaseDuration() time.Duration {
	return kindDurations[k]
}

// Resources returns the resources consumed by one unit of the kind. The
// returned slice must not be modified.
func (k Kind) Resources() []Resource {
	return kindResources[k]
}

// ParseKind resolves a kind name, ignoring case.
func ParseKind(name string) (Kind, error) {
	for kind, candidate := range kindNames {
		if strings.EqualFold(candidate, name) {
			return kind, nil
		}
	}
	return 0, NewError(ErrorKindParse, "kind", fmt.Errorf("unknown kind: %q", name))
}

// Size identifies a product size.
type Size int

const (
	S   Size = 1
	M   Size = 2
	L   Size = 4
	XL  Size = 8
	XXL Size = 16
)

// Sizes returns every size from smallest to largest.
func Sizes() []Size {
	return []Size{S, M, L, XL, XXL}
}

var sizeNames = map[Size]string{
	S:   "S",
	M:   "M",
	L:   "L",
	XL:  "XL",
	XXL: "XXL",
}

// IsValid returns true for one of the five known sizes.
func (s Size) IsValid() bool {
	_, ok := sizeNames[s]
	return ok
}

func (s Size) String() string {
	if name, ok := sizeNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseSize resolves a size name, ignoring case.
func ParseSize(name string) (Size, error) {
	upper := strings.ToUpper(name)
	for size, candidate := range sizeNames {
		if candidate == upper {
			return size, nil
		}
	}
	return 0, NewError(ErrorKindParse, "size", fmt.Errorf("unknown size: %q", name))
}
