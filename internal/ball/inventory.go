package ball

import "errors"

// ErrInventoryFull is returned when pushing into a full inventory.
var ErrInventoryFull = errors.New("inventory full")

// Inventory is a fixed-capacity stack of ball kinds.
type Inventory struct {
	slots []*Kind
	top   int // number of held balls
}

// NewInventory creates an inventory holding the given balls, bottom first.
// Balls beyond capacity are dropped.
func NewInventory(capacity int, balls ...Kind) *Inventory {
	inv := &Inventory{slots: make([]*Kind, max(capacity, 0))}
	for _, k := range balls {
		if inv.Push(k) != nil {
			break
		}
	}
	return inv
}

// Push places a ball on top.
func (inv *Inventory) Push(k Kind) error {
	if inv.top >= len(inv.slots) {
		return ErrInventoryFull
	}
	inv.slots[inv.top] = &k
	inv.top++
	return nil
}

// Pop removes and returns the top ball.
func (inv *Inventory) Pop() (Kind, bool) {
	if inv.top == 0 {
		return 0, false
	}
	inv.top--
	k := inv.slots[inv.top]
	inv.slots[inv.top] = nil
	return *k, true
}

// Peek returns the top ball without removing it.
func (inv *Inventory) Peek() (Kind, bool) {
	if inv.top == 0 {
		return 0, false
	}
	return *inv.slots[inv.top-1], true
}

// Get returns the ball in slot i.
func (inv *Inventory) Get(i int) (Kind, bool) {
	if i < 0 || i >= len(inv.slots) || inv.slots[i] == nil {
		return 0, false
	}
	return *inv.slots[i], true
}

// Expand adds n empty slots.
func (inv *Inventory) Expand(n int) {
	for range max(n, 0) {
		inv.slots = append(inv.slots, nil)
	}
}

// Shrink removes up to n slots from the top, discarding any balls in them.
func (inv *Inventory) Shrink(n int) {
	keep := max(len(inv.slots)-max(n, 0), 0)
	inv.slots = inv.slots[:keep]
	inv.top = min(inv.top, keep)
}

// Clear removes every ball, keeping capacity.
func (inv *Inventory) Clear() {
	for i := range inv.slots {
		inv.slots[i] = nil
	}
	inv.top = 0
}

// Len returns the number of held balls.
func (inv *Inventory) Len() int {
	return inv.top
}

// Cap returns the number of slots.
func (inv *Inventory) Cap() int {
	return len(inv.slots)
}

// Empty reports whether no balls are held.
func (inv *Inventory) Empty() bool {
	return inv.top == 0
}
