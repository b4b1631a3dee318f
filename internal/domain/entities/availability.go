package entities

import (
	"time"
)

// Period is a window of possible appointment start times for one employee,
// already adjusted so that a full-duration appointment still ends by closing
// time. Periods are transient: they are computed fresh for every availability
// query and never persisted.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the period, inclusive of both ends.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Slot is one candidate appointment start time, annotated with the employees
// available to take it.
type Slot struct {
	Time      time.Time   `json:"time"`
	Employees []*Employee `json:"employees"`
}

// NewSlot creates a slot with no employees attached yet
func NewSlot(t time.Time) *Slot {
	return &Slot{Time: t}
}

// AddEmployee attaches an employee to the slot
func (s *Slot) AddEmployee(employee *Employee) {
	s.Employees = append(s.Employees, employee)
}

// HasEmployees reports whether at least one employee can take the slot
func (s *Slot) HasEmployees() bool {
	return len(s.Employees) > 0
}

// EmployeeCount returns the number of employees available for the slot
func (s *Slot) EmployeeCount() int {
	return len(s.Employees)
}

// DateWithSlots groups all slots for one calendar day
type DateWithSlots struct {
	Date  time.Time `json:"date"`
	Slots []*Slot   `json:"slots"`
}

// NewDateWithSlots creates an empty day entry for the given date
func NewDateWithSlots(date time.Time) *DateWithSlots {
	return &DateWithSlots{Date: date}
}

// AddSlot appends a slot to the day
func (d *DateWithSlots) AddSlot(slot *Slot) {
	d.Slots = append(d.Slots, slot)
}

// ContainsSlot reports whether the day has a slot at the given "HH:MM"
// wall-clock time.
func (d *DateWithSlots) ContainsSlot(hhmm string) bool {
	for _, slot := range d.Slots {
		if slot.Time.Format("15:04") == hhmm {
			return true
		}
	}
	return false
}

// SlotCount returns the number of slots on the day
func (d *DateWithSlots) SlotCount() int {
	return len(d.Slots)
}

// HasSlots reports whether the day has any slots
func (d *DateWithSlots) HasSlots() bool {
	return len(d.Slots) > 0
}

// DateCollection is the ordered set of days (and their slots) covering an
// availability query range.
type DateCollection struct {
	Dates []*DateWithSlots `json:"dates"`
}

// NewDateCollection creates an empty collection
func NewDateCollection() *DateCollection {
	return &DateCollection{}
}

// Add appends a day to the collection
func (c *DateCollection) Add(date *DateWithSlots) {
	c.Dates = append(c.Dates, date)
}

// FirstAvailableDate returns the earliest day that has at least one slot, or
// nil if no day does. Useful for preselecting a date in a booking UI.
func (c *DateCollection) FirstAvailableDate() *DateWithSlots {
	for _, date := range c.Dates {
		if date.HasSlots() {
			return date
		}
	}
	return nil
}

// DatesWithSlots returns the days that still have at least one slot with an
// available employee.
func (c *DateCollection) DatesWithSlots() []*DateWithSlots {
	var dates []*DateWithSlots
	for _, date := range c.Dates {
		for _, slot := range date.Slots {
			if slot.HasEmployees() {
				dates = append(dates, date)
				break
			}
		}
	}
	return dates
}

// Filter returns a new collection containing only the days for which the
// predicate returns true.
func (c *DateCollection) Filter(keep func(*DateWithSlots) bool) *DateCollection {
	filtered := NewDateCollection()
	for _, date := range c.Dates {
		if keep(date) {
			filtered.Add(date)
		}
	}
	return filtered
}

// Each invokes fn for every day in the collection, in order
func (c *DateCollection) Each(fn func(*DateWithSlots)) {
	for _, date := range c.Dates {
		fn(date)
	}
}
