package model

import (
	"fmt"
	"time"
)

const (
	// MinQuantity is the smallest accepted order quantity.
	MinQuantity = 1
	// MaxQuantity is the largest accepted order quantity.
	MaxQuantity = 99
)

// Order represents a validated request for quantity units of one kind and size.
type Order struct {
	Kind     Kind `json:"kind" yaml:"kind"`
	Size     Size `json:"size" yaml:"size"`
	Quantity int  `json:"quantity" yaml:"quantity"`
}

// NewOrder creates a validated order
func NewOrder(kind Kind, size Size, quantity int) (*Order, error) {
	ret := &Order{Kind: kind, Size: size, Quantity: quantity}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Validate checks the order fields
func (o *Order) Validate() error {
	if !o.Kind.IsValid() {
		return NewError(ErrorKindParse, "order", fmt.Errorf("invalid kind: %d", o.Kind))
	}
	if !o.Size.IsValid() {
		return NewError(ErrorKindParse, "order", fmt.Errorf("invalid size: %d", o.Size))
	}
	if o.Quantity < MinQuantity || o.Quantity > MaxQuantity {
		return NewError(ErrorKindParse, "order", fmt.Errorf("quantity %d out of range [%d, %d]", o.Quantity, MinQuantity, MaxQuantity))
	}
	return nil
}

// Tasks expands the order into one task per unit.
func (o *Order) Tasks(multiplier float64) []*Task {
	ret := make([]*Task, 0, o.Quantity)
	for i := 0; i < o.Quantity; i++ {
		ret = append(ret, NewTask(o.Kind, o.Size, multiplier))
	}
	return ret
}

func (o *Order) String() string {
	return fmt.Sprintf("%v %v x%d", o.Kind, o.Size, o.Quantity)
}

// Task represents a single unit of work executed by a worker.
type Task struct {
	Kind           Kind `json:"kind" yaml:"kind"`
	Size           Size `json:"size" yaml:"size"`
	DurationMillis int  `json:"durationMillis" yaml:"durationMillis"`
	Completed      bool `json:"completed" yaml:"completed"`
}

// NewTask creates a task whose duration is the kind base duration scaled by multiplier.
func NewTask(kind Kind, size Size, multiplier float64) *Task {
	return &Task{
		Kind:           kind,
		Size:           size,
		DurationMillis: DurationMillis(kind, multiplier),
	}
}

// DurationMillis returns baseDuration(kind) * 1000 * multiplier, truncated.
func DurationMillis(kind Kind, multiplier float64) int {
	return int(kind.BaseDuration().Seconds() * 1000 * multiplier)
}

// Duration returns the task preparation time.
func (t *Task) Duration() time.Duration {
	return time.Duration(t.DurationMillis) * time.Millisecond
}

// Name returns a human readable label such as "Regina XXL".
func (t *Task) Name() string {
	return t.Kind.String() + " " + t.Size.String()
}
