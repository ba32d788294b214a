// ABOUTME: Static schema of the clinical observation form
// ABOUTME: Maps field names to API keys and option groups, fixed or dynamic

package form

import (
	"fmt"
)

// GroupKind discriminates fixed option groups from dynamically loaded ones
type GroupKind int

const (
	// GroupFixed has a hard-coded ordered value set
	GroupFixed GroupKind = iota
	// GroupDynamic gets its values from the breed loader at form activation
	GroupDynamic
)

// OptionGroup is the permitted value set for a form field
type OptionGroup struct {
	Name   string
	Kind   GroupKind
	Values []string // empty for GroupDynamic
}

// Field declares one clinical observation field
type Field struct {
	Name   string // form-side field name
	APIKey string // wire-side payload key
	Group  string // option group name
}

// Schema is the immutable registry of form fields and their option groups
type Schema struct {
	fields []Field
	groups map[string]OptionGroup
}

// NewSchema validates and builds a schema. Field names and API keys must
// each be unique (the name->key mapping is a bijection), and every field
// must reference a declared option group.
func NewSchema(fields []Field, groups []OptionGroup) (*Schema, error) {
	groupsByName := make(map[string]OptionGroup, len(groups))
	for _, g := range groups {
		if _, dup := groupsByName[g.Name]; dup {
			return nil, fmt.Errorf("duplicate option group %q", g.Name)
		}
		groupsByName[g.Name] = g
	}

	seenNames := make(map[string]bool, len(fields))
	seenKeys := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seenNames[f.Name] {
			return nil, fmt.Errorf("duplicate field name %q", f.Name)
		}
		if seenKeys[f.APIKey] {
			return nil, fmt.Errorf("duplicate API key %q", f.APIKey)
		}
		if _, ok := groupsByName[f.Group]; !ok {
			return nil, fmt.Errorf("field %q references unknown option group %q", f.Name, f.Group)
		}
		seenNames[f.Name] = true
		seenKeys[f.APIKey] = true
	}

	return &Schema{fields: fields, groups: groupsByName}, nil
}

// Fields returns the declared fields in form order
func (s *Schema) Fields() []Field {
	return s.fields
}

// Field looks up a field by form-side name
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Group looks up an option group by name
func (s *Schema) Group(name string) (OptionGroup, bool) {
	g, ok := s.groups[name]
	return g, ok
}

// AllowsValue reports whether value is permitted for the field. The empty
// string (unset) is always permitted. Dynamic groups check against the
// supplied reference list.
func (s *Schema) AllowsValue(f Field, value string, dynamicValues []string) bool {
	if value == "" {
		return true
	}
	group, ok := s.groups[f.Group]
	if !ok {
		return false
	}
	switch group.Kind {
	case GroupFixed:
		for _, v := range group.Values {
			if v == value {
				return true
			}
		}
		return false
	case GroupDynamic:
		for _, v := range dynamicValues {
			if v == value {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Option values come from the training data and are sent verbatim on the
// wire, hence the Portuguese clinical vocabulary.
var defaultGroups = []OptionGroup{
	{Name: "general_state", Kind: GroupFixed, Values: []string{"Bom", "Moderado", "Grave", "Ruim"}},
	{Name: "ectoparasites", Kind: GroupFixed, Values: []string{"Ausente", "Leve", "Grave"}},
	{Name: "nutritional_state", Kind: GroupFixed, Values: []string{"Adequado/Eutrófico", "Leve a Moderado", "Grave/Caquético"}},
	{Name: "coat", Kind: GroupFixed, Values: []string{"Normal", "Leves/Moderadas", "Grave"}},
	{Name: "nails", Kind: GroupFixed, Values: []string{"Normal", "Alterada"}},
	{Name: "mucosa_color", Kind: GroupFixed, Values: []string{"Normal (Rosa-claro)", "Levemente Hipercorada", "Congesta"}},
	{Name: "presence_absence", Kind: GroupFixed, Values: []string{"Presente", "Ausente"}},
	{Name: "lymph_nodes", Kind: GroupFixed, Values: []string{"Normal", "Aumentados"}},
	{Name: "conjunctivitis", Kind: GroupFixed, Values: []string{"Ausente", "Presente", "Ceratoconjuntivite Grave", "Conjuntivite Leve"}},
	{Name: "skin_lesion", Kind: GroupFixed, Values: []string{"Ausente", "Presente", "Leve/Moderada", "Grave/Generalizada"}},
	{Name: "animal_sex", Kind: GroupFixed, Values: []string{"M", "F"}},
	{Name: "breed_name", Kind: GroupDynamic},
}

var defaultFields = []Field{
	{Name: "generalState", APIKey: "general_state", Group: "general_state"},
	{Name: "ectoparasites", APIKey: "ectoparasites", Group: "ectoparasites"},
	{Name: "nutritionalState", APIKey: "nutritional_state", Group: "nutritional_state"},
	{Name: "coat", APIKey: "coat", Group: "coat"},
	{Name: "nails", APIKey: "nails", Group: "nails"},
	{Name: "mucosaColor", APIKey: "mucosa_color", Group: "mucosa_color"},
	{Name: "muzzleEarLesion", APIKey: "muzzle_ear_lesion", Group: "presence_absence"},
	{Name: "lymphNodes", APIKey: "lymph_nodes", Group: "lymph_nodes"},
	{Name: "blepharitis", APIKey: "blepharitis", Group: "presence_absence"},
	{Name: "conjunctivitis", APIKey: "conjunctivitis", Group: "conjunctivitis"},
	{Name: "alopecia", APIKey: "alopecia", Group: "presence_absence"},
	{Name: "bleeding", APIKey: "bleeding", Group: "presence_absence"},
	{Name: "skinLesion", APIKey: "skin_lesion", Group: "skin_lesion"},
	{Name: "muzzleLipDepigmentation", APIKey: "muzzle_lip_depigmentation", Group: "presence_absence"},
	{Name: "animalSex", APIKey: "animal_sex", Group: "animal_sex"},
	{Name: "breedName", APIKey: "breed_name", Group: "breed_name"},
}

// Default returns the clinical observation schema. A broken field table is a
// programming error, so this panics instead of returning an error; the CLI
// builds the schema once at startup.
func Default() *Schema {
	s, err := NewSchema(defaultFields, defaultGroups)
	if err != nil {
		panic(fmt.Sprintf("invalid clinical form schema: %v", err))
	}
	return s
}
