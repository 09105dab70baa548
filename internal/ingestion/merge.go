package ingestion

import "github.com/jonathan/talent-match/internal/types"

// MergeFields overlays the LLM fields on the heuristic ones. Every value the
// LLM found wins; lists are replaced only when the LLM list is non-empty. The
// summary is left empty so it can be rebuilt from the result.
func MergeFields(heuristic types.ExtractedFields, llm *types.ExtractedFields) types.ExtractedFields {
	out := heuristic
	out.Summary = ""
	if llm == nil {
		return out
	}

	overString(&out.Name, llm.Name)
	overString(&out.Email, llm.Email)
	overString(&out.Phone, llm.Phone)
	overString(&out.CurrentPosition, llm.CurrentPosition)
	overString(&out.Location, llm.Location)

	if llm.Age != nil {
		out.Age = types.IntPtr(*llm.Age)
	}
	if llm.YearsExperience != nil {
		out.YearsExperience = types.IntPtr(*llm.YearsExperience)
	}
	if len(llm.Skills) > 0 {
		out.Skills = append([]string(nil), llm.Skills...)
	}
	if len(llm.Employers) > 0 {
		out.Employers = append([]string(nil), llm.Employers...)
	}
	return out
}

func overString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
