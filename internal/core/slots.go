package core

import (
	"fmt"
	"strings"
	"sync"

	"github.com/guestify/mediakit-ai/internal/content"
)

type SlotName string

const (
	SlotShort  SlotName = "short"
	SlotMedium SlotName = "medium"
	SlotLong   SlotName = "long"
)

// SlotNames lists the slots in display order.
var SlotNames = []SlotName{SlotShort, SlotMedium, SlotLong}

// VariationCounts is how many variations one generation asks for per slot.
var VariationCounts = map[SlotName]int{
	SlotShort:  5,
	SlotMedium: 3,
	SlotLong:   2,
}

type SlotStatus string

const (
	StatusEmpty         SlotStatus = "empty"
	StatusGenerating    SlotStatus = "generating"
	StatusHasVariations SlotStatus = "has_variations"
	StatusLocked        SlotStatus = "locked"
)

// Slot is the state of one target length.
type Slot struct {
	Name        SlotName            `json:"name"`
	Status      SlotStatus          `json:"status"`
	Variations  []content.Variation `json:"variations"`
	Locked      bool                `json:"locked"`
	LockedText  string              `json:"lockedText,omitempty"`
	LockedLabel string              `json:"lockedLabel,omitempty"`
}

// slotMachine holds the three slots shared by the biography and guest intro generators.
// Callers must not hold mu across network calls.
type slotMachine struct {
	mu     sync.Mutex
	active SlotName
	slots  map[SlotName]*Slot
	labels map[SlotName][]string
}

func newSlotMachine(labels map[SlotName][]string) *slotMachine {
	m := &slotMachine{labels: labels}
	m.reset()
	return m
}

func (m *slotMachine) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = SlotShort
	m.slots = make(map[SlotName]*Slot, len(SlotNames))
	for _, n := range SlotNames {
		m.slots[n] = &Slot{Name: n, Status: StatusEmpty}
	}
}

func validSlot(name SlotName) error {
	if _, ok := VariationCounts[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
	return nil
}

func (m *slotMachine) setActive(name SlotName) error {
	if err := validSlot(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = name
	return nil
}

func (m *slotMachine) activeSlot() SlotName {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *slotMachine) get(name SlotName) Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySlot(m.slots[name])
}

func (m *slotMachine) all() map[SlotName]Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[SlotName]Slot, len(m.slots))
	for n, s := range m.slots {
		out[n] = copySlot(s)
	}
	return out
}

func copySlot(s *Slot) Slot {
	out := *s
	out.Variations = append([]content.Variation(nil), s.Variations...)
	return out
}

// begin moves a slot to generating and returns its previous status.
func (m *slotMachine) begin(name SlotName) (SlotStatus, error) {
	if err := validSlot(name); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[name]
	if s.Locked {
		return s.Status, ErrSlotLocked
	}
	prev := s.Status
	s.Status = StatusGenerating
	return prev, nil
}

// succeed stores freshly parsed variations, labelled and cut to the slot's count.
func (m *slotMachine) succeed(name SlotName, vs []content.Variation) []content.Variation {
	vs = m.label(name, vs)
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[name]
	s.Variations = vs
	if len(vs) > 0 {
		s.Status = StatusHasVariations
	} else {
		s.Status = StatusEmpty
	}
	return append([]content.Variation(nil), vs...)
}

// fail empties a slot after a failed generation.
func (m *slotMachine) fail(name SlotName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[name]
	s.Variations = nil
	s.Status = StatusEmpty
}

// restore puts back a status without touching the variations.
func (m *slotMachine) restore(name SlotName, status SlotStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name].Status = status
}

func (m *slotMachine) label(name SlotName, vs []content.Variation) []content.Variation {
	count := VariationCounts[name]
	if len(vs) > count {
		vs = vs[:count]
	}
	vocab := m.labels[name]
	out := make([]content.Variation, len(vs))
	for i, v := range vs {
		v.ID = i + 1
		switch {
		case v.Label != "":
			v.Label = strings.ToUpper(v.Label)
		case i < len(vocab):
			v.Label = vocab[i]
		default:
			v.Label = fmt.Sprintf("VARIATION %d", i+1)
		}
		out[i] = v
	}
	return out
}

func (m *slotMachine) lock(name SlotName, index int) (content.Variation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[name]
	if index < 0 || index >= len(s.Variations) {
		return content.Variation{}, fmt.Errorf("%w: %d", ErrNoVariation, index)
	}
	v := s.Variations[index]
	s.Locked = true
	s.LockedText = v.Text
	s.LockedLabel = v.Label
	s.Status = StatusLocked
	return v, nil
}

// lockText locks a slot to text that did not come from a generation.
func (m *slotMachine) lockText(name SlotName, label, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[name]
	s.Locked = true
	s.LockedText = text
	s.LockedLabel = label
	s.Status = StatusLocked
}

func (m *slotMachine) unlock(name SlotName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[name]
	s.Locked = false
	s.LockedText = ""
	s.LockedLabel = ""
	if len(s.Variations) > 0 {
		s.Status = StatusHasVariations
	} else {
		s.Status = StatusEmpty
	}
}

func (m *slotMachine) replace(name SlotName, index int, v content.Variation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[name]
	if index < 0 || index >= len(s.Variations) {
		return fmt.Errorf("%w: %d", ErrNoVariation, index)
	}
	s.Variations[index] = v
	return nil
}

func (m *slotMachine) lockedTexts() map[SlotName]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[SlotName]string)
	for n, s := range m.slots {
		if s.Locked {
			out[n] = s.LockedText
		}
	}
	return out
}
