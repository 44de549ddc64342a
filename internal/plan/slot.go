package plan

import (
	"fmt"
	"strings"
)

// Day is a day-of-week key. Slot keys are absolute days of the week; the
// configurable start day only changes display ordering, never the keys.
type Day string

// MealTime is a meal-time key.
type MealTime string

// Person is a household member key.
type Person string

const (
	Monday    Day = "mon"
	Tuesday   Day = "tue"
	Wednesday Day = "wed"
	Thursday  Day = "thu"
	Friday    Day = "fri"
	Saturday  Day = "sat"
	Sunday    Day = "sun"

	Lunch  MealTime = "lunch"
	Dinner MealTime = "dinner"

	Steve Person = "steve"
	Zoe   Person = "zoe"
	Dylan Person = "dylan"
)

// Days is the canonical Monday-first day sequence.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// MealTimes lists the meal-time keys in display order.
var MealTimes = []MealTime{Lunch, Dinner}

// People lists the fixed household members.
var People = []Person{Steve, Zoe, Dylan}

// SlotKey addresses one (day, meal-time, person) cell of the weekly grid.
// There are exactly len(Days) * len(MealTimes) * len(People) = 42 slots and
// the set of valid keys is fixed for the life of the app.
type SlotKey struct {
	Day      Day
	MealTime MealTime
	Person   Person
}

// String returns the canonical "day-mealTime-person" encoding.
func (k SlotKey) String() string {
	return fmt.Sprintf("%s-%s-%s", k.Day, k.MealTime, k.Person)
}

// ParseSlotKey parses the canonical encoding, rejecting anything outside the
// fixed key universe.
func ParseSlotKey(s string) (SlotKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return SlotKey{}, fmt.Errorf("invalid slot key %q: want day-mealTime-person", s)
	}
	k := SlotKey{Day: Day(parts[0]), MealTime: MealTime(parts[1]), Person: Person(parts[2])}
	if !k.Valid() {
		return SlotKey{}, fmt.Errorf("invalid slot key %q", s)
	}
	return k, nil
}

// Valid reports whether every component is a known key.
func (k SlotKey) Valid() bool {
	return validDay(k.Day) && validMealTime(k.MealTime) && validPerson(k.Person)
}

func validDay(d Day) bool {
	for _, x := range Days {
		if x == d {
			return true
		}
	}
	return false
}

func validMealTime(m MealTime) bool {
	for _, x := range MealTimes {
		if x == m {
			return true
		}
	}
	return false
}

func validPerson(p Person) bool {
	for _, x := range People {
		if x == p {
			return true
		}
	}
	return false
}

// ParseDay parses a day key or full English day name, case-insensitively.
func ParseDay(s string) (Day, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mon", "monday":
		return Monday, nil
	case "tue", "tues", "tuesday":
		return Tuesday, nil
	case "wed", "wednesday":
		return Wednesday, nil
	case "thu", "thur", "thurs", "thursday":
		return Thursday, nil
	case "fri", "friday":
		return Friday, nil
	case "sat", "saturday":
		return Saturday, nil
	case "sun", "sunday":
		return Sunday, nil
	}
	return "", fmt.Errorf("invalid day %q", s)
}

// AllSlots returns the fixed 42-key universe in canonical order: Monday-first
// days, lunch before dinner, household order within a meal.
func AllSlots() []SlotKey {
	keys := make([]SlotKey, 0, len(Days)*len(MealTimes)*len(People))
	for _, d := range Days {
		for _, m := range MealTimes {
			for _, p := range People {
				keys = append(keys, SlotKey{Day: d, MealTime: m, Person: p})
			}
		}
	}
	return keys
}
