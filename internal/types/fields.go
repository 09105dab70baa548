package types

// ExtractedFields is the structured data recovered from a résumé. Every field
// is optional; the zero value means the field was not found.
type ExtractedFields struct {
	Name            string   `json:"name,omitempty"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Age             *int     `json:"age,omitempty"`
	YearsExperience *int     `json:"years_experience,omitempty"`
	CurrentPosition string   `json:"current_position,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Employers       []string `json:"employers,omitempty"`
	Location        string   `json:"location,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

// IntPtr returns a pointer to v, for the optional numeric fields.
func IntPtr(v int) *int {
	return &v
}

// Empty reports whether no field at all was recovered.
func (f *ExtractedFields) Empty() bool {
	return f.Name == "" && f.Email == "" && f.Phone == "" && f.Age == nil &&
		f.YearsExperience == nil && f.CurrentPosition == "" && len(f.Skills) == 0 &&
		len(f.Employers) == 0 && f.Location == ""
}
