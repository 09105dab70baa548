package types

// CandidateRequest creates or fully replaces a candidate record.
type CandidateRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=255"`
	Email           string   `json:"email" validate:"required,email,max=255"`
	Phone           string   `json:"phone,omitempty" validate:"omitempty,phone"`
	BirthDate       string   `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CurrentPosition string   `json:"current_position,omitempty" validate:"max=255"`
	YearsExperience int      `json:"years_experience" validate:"min=0,max=80"`
	Location        string   `json:"location,omitempty" validate:"max=255"`
	Description     string   `json:"description,omitempty" validate:"max=5000"`
	Skills          []string `json:"skills,omitempty" validate:"max=100,dive,max=80"`
}
