package scheduler

import "github.com/arnavshah/shift-calendar-go/pkg/models"

// CanAssign reports whether employee holds every required skill. Names are
// compared case-sensitively; skill levels and availability are not consulted.
func CanAssign(employee models.Employee, requiredSkills []string) bool {
	return len(MissingSkills(employee, requiredSkills)) == 0
}

// MissingSkills returns the required skill names the employee does not hold
func MissingSkills(employee models.Employee, requiredSkills []string) []string {
	if len(requiredSkills) == 0 {
		return nil
	}
	held := make(map[string]struct{}, len(employee.Skills))
	for _, s := range employee.Skills {
		held[s.SkillName] = struct{}{}
	}
	var missing []string
	for _, skill := range requiredSkills {
		if _, ok := held[skill]; !ok {
			missing = append(missing, skill)
		}
	}
	return missing
}
