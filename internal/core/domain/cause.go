package domain

// Cause is the fixed category of charitable activity a donation supports.
type Cause string

const (
	CauseOrphanage        Cause = "orphanage"
	CauseEducation        Cause = "education"
	CauseHealth           Cause = "health"
	CauseWomenEmpowerment Cause = "women_empowerment"
	CauseEnvironment      Cause = "environment"
	CauseSocialImpact     Cause = "social_impact"
	CauseGeneral          Cause = "general"
)

var causeLabels = map[Cause]string{
	CauseOrphanage:        "Orphanage Support",
	CauseEducation:        "Education Initiative",
	CauseHealth:           "Healthcare Mission",
	CauseWomenEmpowerment: "Women Empowerment",
	CauseEnvironment:      "Green Earth Initiative",
	CauseSocialImpact:     "Social Impact Drive",
	CauseGeneral:          "Community Support",
}

// ParseCause validates a raw cause token.
func ParseCause(s string) (Cause, bool) {
	if _, ok := causeLabels[Cause(s)]; ok {
		return Cause(s), true
	}
	return "", false
}

// Label returns the human-readable name printed on posters and emails.
func (c Cause) Label() string {
	if label, ok := causeLabels[c]; ok {
		return label
	}
	return string(c)
}

// Causes returns all supported cause tokens.
func Causes() []Cause {
	return []Cause{
		CauseOrphanage,
		CauseEducation,
		CauseHealth,
		CauseWomenEmpowerment,
		CauseEnvironment,
		CauseSocialImpact,
		CauseGeneral,
	}
}
