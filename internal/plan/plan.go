package plan

import (
	"encoding/json"
	"fmt"
)

// Plan maps every valid slot key to a recipe ID, or "" for an empty slot.
// The key set is always exactly the full 42-key universe: mutations change
// values, never add or remove keys. An empty plan is all-42-empty, not a
// sparse map.
type Plan struct {
	slots map[SlotKey]string
}

// New returns an all-empty plan over the full key universe.
func New() *Plan {
	p := &Plan{slots: make(map[SlotKey]string, 42)}
	for _, k := range AllSlots() {
		p.slots[k] = ""
	}
	return p
}

// Assign sets a slot to a recipe ID. Unknown keys are rejected so the key
// universe stays fixed.
func (p *Plan) Assign(k SlotKey, recipeID string) error {
	if !k.Valid() {
		return fmt.Errorf("invalid slot key %q", k)
	}
	p.slots[k] = recipeID
	return nil
}

// Remove empties a slot.
func (p *Plan) Remove(k SlotKey) error {
	if !k.Valid() {
		return fmt.Errorf("invalid slot key %q", k)
	}
	p.slots[k] = ""
	return nil
}

// Clear empties every slot.
func (p *Plan) Clear() {
	for k := range p.slots {
		p.slots[k] = ""
	}
}

// Get returns the recipe ID assigned to a slot, "" when empty or unknown.
func (p *Plan) Get(k SlotKey) string {
	return p.slots[k]
}

// IsEmpty reports whether no slot has an assignment.
func (p *Plan) IsEmpty() bool {
	for _, id := range p.slots {
		if id != "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. History snapshots clone so later mutation of
// the live plan cannot retroactively alter saved entries.
func (p *Plan) Clone() *Plan {
	c := &Plan{slots: make(map[SlotKey]string, len(p.slots))}
	for k, v := range p.slots {
		c.slots[k] = v
	}
	return c
}

// Equal reports whether two plans hold identical assignments.
func (p *Plan) Equal(o *Plan) bool {
	if o == nil {
		return false
	}
	for k, v := range p.slots {
		if o.slots[k] != v {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the plan as a {slotKey: recipeID} object, omitting
// empty slots for compactness.
func (p *Plan) MarshalJSON() ([]byte, error) {
	m := make(map[string]string)
	for k, v := range p.slots {
		if v != "" {
			m[k.String()] = v
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a {slotKey: recipeID} object onto a full-universe
// plan. Unknown keys are dropped rather than widening the key set, so a
// plan persisted by an older build still loads.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	fresh := New()
	for s, id := range m {
		k, err := ParseSlotKey(s)
		if err != nil {
			continue
		}
		fresh.slots[k] = id
	}
	p.slots = fresh.slots
	return nil
}
