package types

// ProfileRequest creates or fully replaces a profile. Members are managed
// through their own endpoints.
type ProfileRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Description string   `json:"description,omitempty" validate:"max=5000"`
	TopSkills   []string `json:"top_skills,omitempty" validate:"max=50,dive,max=80"`
}

// ProfileSkillRequest adds one skill to a profile.
type ProfileSkillRequest struct {
	Skill string `json:"skill" validate:"required,max=80"`
}
