package lineup

import "strings"

// Slot is a starting position. Labels are presentational only.
type Slot int

const (
	SlotGuard1 Slot = iota
	SlotGuard2
	SlotForward1
	SlotForward2
	SlotCenter
)

const Size = 5

var slotLabels = [Size]string{"G1", "G2", "F1", "F2", "C"}

func (s Slot) String() string {
	if s < 0 || int(s) >= Size {
		return "unknown"
	}
	return slotLabels[s]
}

// Selection is an ordered five-slot lineup. Empty slots are allowed.
type Selection [Size]string

// NewSelection fills slots in order from names; extra names are dropped.
func NewSelection(names ...string) Selection {
	var out Selection
	for i := 0; i < len(names) && i < Size; i++ {
		out[i] = strings.TrimSpace(names[i])
	}
	return out
}

// Names returns the non-empty slots in slot order.
func (s Selection) Names() []string {
	out := make([]string, 0, Size)
	for _, name := range s {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (s Selection) IsEmpty() bool {
	return len(s.Names()) == 0
}

// TeamLineup is a team's default starting five from the lineups sheet.
type TeamLineup struct {
	TeamKey  string
	TeamName string
	Starters Selection
}
