package model

import "fmt"

// Attribute is a scalar combat attribute.
// Values are dense and stable: they index per-entity stat arrays.
type Attribute uint8

const (
	AttrStrength Attribute = iota
	AttrDexterity
	AttrVitality
	AttrIntelligence
	AttrWisdom
	AttrTenacity

	AttrCount
)

var attributeNames = [AttrCount]string{
	AttrStrength:     "strength",
	AttrDexterity:    "dexterity",
	AttrVitality:     "vitality",
	AttrIntelligence: "intelligence",
	AttrWisdom:       "wisdom",
	AttrTenacity:     "tenacity",
}

func (a Attribute) String() string {
	if a < AttrCount {
		return attributeNames[a]
	}
	return fmt.Sprintf("Attribute(%d)", a)
}

// Valid reports whether a is inside the enumeration.
func (a Attribute) Valid() bool {
	return a < AttrCount
}

// ParseAttribute resolves an attribute by its lower-case name.
func ParseAttribute(s string) (Attribute, error) {
	for i, name := range attributeNames {
		if name == s {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", s)
}

// Vital is a depletable resource pool (HP, MP).
type Vital uint8

const (
	VitalHP Vital = iota
	VitalMP

	VitalCount
)

var vitalNames = [VitalCount]string{
	VitalHP: "hp",
	VitalMP: "mp",
}

func (v Vital) String() string {
	if v < VitalCount {
		return vitalNames[v]
	}
	return fmt.Sprintf("Vital(%d)", v)
}

// ParseVital resolves a vital by its lower-case name.
func ParseVital(s string) (Vital, error) {
	for i, name := range vitalNames {
		if name == s {
			return Vital(i), nil
		}
	}
	return 0, fmt.Errorf("unknown vital %q", s)
}
