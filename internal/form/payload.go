// ABOUTME: Form value state and prediction payload construction
// ABOUTME: Normalizes unset fields to wire-level null, never dropping a key

package form

import (
	"fmt"
	"strings"

	"github.com/leishvet/leishvet-cli/internal/client"
)

// Values holds the current form state, keyed by field name.
// The empty string means the field was not filled in.
type Values map[string]string

// NewValues returns a value map with every schema field unset
func (s *Schema) NewValues() Values {
	v := make(Values, len(s.fields))
	for _, f := range s.fields {
		v[f.Name] = ""
	}
	return v
}

// Set replaces one field's value. Fields are independent; no cross-field
// validation happens here.
func (v Values) Set(name, value string) {
	v[name] = value
}

// BuildPayload turns form values into the wire payload. Unset fields map to
// an explicit null: the backend distinguishes "not recorded" from a
// clinically meaningful "Ausente". A second pass force-inserts any API key
// the value map missed, so the payload always carries every declared key.
func (s *Schema) BuildPayload(values Values) client.PredictionRequest {
	payload := make(client.PredictionRequest, len(s.fields))

	for _, f := range s.fields {
		value, ok := values[f.Name]
		if !ok || value == "" {
			payload[f.APIKey] = nil
			continue
		}
		v := value
		payload[f.APIKey] = &v
	}

	for _, f := range s.fields {
		if _, ok := payload[f.APIKey]; !ok {
			payload[f.APIKey] = nil
		}
	}

	return payload
}

// ValidateValues checks that every value belongs to a declared field and is
// permitted by that field's option group. Dynamic groups are checked against
// the supplied reference list. Unset fields always pass.
func (s *Schema) ValidateValues(values Values, dynamicValues []string) error {
	for name, value := range values {
		field, ok := s.Field(name)
		if !ok {
			return fmt.Errorf("unknown field %q (known fields: %s)", name, strings.Join(s.fieldNames(), ", "))
		}
		if !s.AllowsValue(field, value, dynamicValues) {
			return fmt.Errorf("value %q is not permitted for field %q", value, name)
		}
	}
	return nil
}

func (s *Schema) fieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}
