package identification

import (
	"fmt"
	"strings"

	"florafinder/internal/services"
)

// Organ is the plant part visible in a photograph.
type Organ string

const (
	OrganFlower Organ = "flower"
	OrganLeaf   Organ = "leaf"
	OrganFruit  Organ = "fruit"
	OrganBark   Organ = "bark"
	OrganHabit  Organ = "habit"
	OrganOther  Organ = "other"
)

// Organs lists every accepted organ value.
func Organs() []Organ {
	return []Organ{OrganFlower, OrganLeaf, OrganFruit, OrganBark, OrganHabit, OrganOther}
}

// ParseOrgan validates an organ hint. Anything outside Organs is a validation error.
func ParseOrgan(value string) (Organ, error) {
	candidate := Organ(strings.ToLower(strings.TrimSpace(value)))
	for _, organ := range Organs() {
		if organ == candidate {
			return organ, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "identification", "parse organ",
		fmt.Sprintf("organ %q is not one of flower, leaf, fruit, bark, habit, other", value), nil)
}

func (o Organ) String() string { return string(o) }
