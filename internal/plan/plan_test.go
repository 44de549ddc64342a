package plan

import (
	"encoding/json"
	"testing"
)

func slotCount(p *Plan) int {
	count := 0
	for _, k := range AllSlots() {
		_ = p.Get(k)
		count++
	}
	return count
}

func assignedCount(p *Plan) int {
	count := 0
	for _, k := range AllSlots() {
		if p.Get(k) != "" {
			count++
		}
	}
	return count
}

func TestNewPlanIsEmpty(t *testing.T) {
	p := New()
	if !p.IsEmpty() {
		t.Error("Expected a new plan to be empty")
	}
	if got := slotCount(p); got != 42 {
		t.Errorf("Expected 42 addressable slots, got %d", got)
	}
}

func TestPlanMutations(t *testing.T) {
	p := New()
	key := SlotKey{Day: Friday, MealTime: Lunch, Person: Steve}

	t.Run("Assign", func(t *testing.T) {
		if err := p.Assign(key, "omelette"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := p.Get(key); got != "omelette" {
			t.Errorf("Expected 'omelette', got %q", got)
		}
		if p.IsEmpty() {
			t.Error("Expected plan to not be empty after an assignment")
		}
	})

	t.Run("AssignInvalidKey", func(t *testing.T) {
		bad := SlotKey{Day: "someday", MealTime: Lunch, Person: Steve}
		if err := p.Assign(bad, "omelette"); err == nil {
			t.Error("Expected an error assigning to an invalid key, got nil")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := p.Remove(key); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := p.Get(key); got != "" {
			t.Errorf("Expected the slot to be empty, got %q", got)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		for _, k := range AllSlots()[:5] {
			p.Assign(k, "omelette")
		}
		p.Clear()
		if !p.IsEmpty() {
			t.Error("Expected plan to be empty after Clear")
		}
	})

	// Mutations never add or remove keys, only change values.
	if got := slotCount(p); got != 42 {
		t.Errorf("Expected the key set to stay at 42, got %d", got)
	}
}

func TestPlanClone(t *testing.T) {
	p := New()
	key := SlotKey{Day: Monday, MealTime: Dinner, Person: Dylan}
	p.Assign(key, "veggie-chilli")

	c := p.Clone()
	if !c.Equal(p) {
		t.Fatal("Expected clone to equal the original")
	}

	// Mutating the original must not leak into the clone.
	p.Assign(key, "tomato-soup")
	if got := c.Get(key); got != "veggie-chilli" {
		t.Errorf("Expected the clone to keep 'veggie-chilli', got %q", got)
	}
	if c.Equal(p) {
		t.Error("Expected clone and mutated original to differ")
	}
}

func TestPlanJSONRoundTrip(t *testing.T) {
	p := New()
	p.Assign(SlotKey{Day: Tuesday, MealTime: Lunch, Person: Zoe}, "ham-sandwich")
	p.Assign(SlotKey{Day: Sunday, MealTime: Dinner, Person: Steve}, "spaghetti-bolognese")

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Failed to marshal plan: %v", err)
	}

	var restored Plan
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal plan: %v", err)
	}
	if !restored.Equal(p) {
		t.Error("Expected the round-tripped plan to equal the original")
	}
	if got := slotCount(&restored); got != 42 {
		t.Errorf("Expected a full 42-key universe after unmarshal, got %d", got)
	}
}

func TestPlanUnmarshalDropsUnknownKeys(t *testing.T) {
	var p Plan
	err := json.Unmarshal([]byte(`{"fri-lunch-steve":"omelette","someday-lunch-bob":"x"}`), &p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := assignedCount(&p); got != 1 {
		t.Errorf("Expected 1 assignment after dropping the unknown key, got %d", got)
	}
	if got := p.Get(SlotKey{Day: Friday, MealTime: Lunch, Person: Steve}); got != "omelette" {
		t.Errorf("Expected 'omelette', got %q", got)
	}
}
