package deck

import (
	"encoding/json"
	"fmt"
)

// Kind represents the kind of a card
type Kind int

const (
	Clan Kind = iota
	Travel
	Recruitment
	Boss
	Stop
)

var kindNames = []string{"clan", "travel", "recruitment", "boss", "stop"}

func (k Kind) String() string {
	if k < Clan || k > Stop {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown card kind %q", name)
}

// Color represents one of the six investor families.
// The zero value means "no color" (a wild travel card, or a colorless kind).
type Color string

const (
	NoColor Color = ""
	Red     Color = "red"
	Blue    Color = "blue"
	Yellow  Color = "yellow"
	Magenta Color = "magenta"
	Orange  Color = "orange"
	Green   Color = "green"
)

// Colors is the fixed global ordering of investor colors
var Colors = []Color{Red, Blue, Yellow, Magenta, Orange, Green}

var colorNames = map[Color]string{
	Red:     "Red",
	Blue:    "Blue",
	Yellow:  "Yellow",
	Magenta: "Magenta",
	Orange:  "Orange",
	Green:   "Green",
}

// ParseColor validates a color name
func ParseColor(s string) (Color, bool) {
	c := Color(s)
	_, ok := colorNames[c]
	return c, ok
}

// Name returns the display name of a color
func (c Color) Name() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "Wild"
}

// Card is an immutable card value.
type Card struct {
	ID    int   `json:"id"`
	Kind  Kind  `json:"type"`
	Color Color `json:"color,omitempty"`
}

// NewCard constructs a card, enforcing the color rules for each kind
func NewCard(id int, kind Kind, color Color) (Card, error) {
	if color != NoColor {
		if _, ok := colorNames[color]; !ok {
			return Card{}, fmt.Errorf("unknown color %q", color)
		}
	}

	switch kind {
	case Clan:
		if color == NoColor {
			return Card{}, fmt.Errorf("clan card %d needs a color", id)
		}
	case Travel:
	case Recruitment, Boss, Stop:
		if color != NoColor {
			return Card{}, fmt.Errorf("%s card %d cannot have a color", kind, id)
		}
	default:
		return Card{}, fmt.Errorf("unknown card kind %d", kind)
	}

	return Card{ID: id, Kind: kind, Color: color}, nil
}

func (c Card) String() string {
	switch c.Kind {
	case Clan:
		return fmt.Sprintf("%s Clan", c.Color.Name())
	case Travel:
		return fmt.Sprintf("%s Travel", c.Color.Name())
	case Recruitment:
		return "Recruitment"
	case Boss:
		return "I'm the Boss!"
	case Stop:
		return "Stop!"
	}
	return "Unknown"
}

func (c Card) MarshalJSON() ([]byte, error) {
	type card Card
	return json.Marshal(struct {
		card
		DisplayName string `json:"displayName"`
	}{card(c), c.String()})
}

// IsWild reports whether a travel card may target any color
func (c Card) IsWild() bool {
	return c.Kind == Travel && c.Color == NoColor
}
