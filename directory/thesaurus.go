package directory

import "strings"

// specialtyClasses groups names that refer to the same kind of doctor.
// Lookup is symmetric: any member expands to its whole class.
var specialtyClasses = [][]string{
	{"cardiologist", "cardiology", "heart doctor", "heart specialist"},
	{"neurologist", "neurology", "brain doctor", "nerve specialist"},
	{"dermatologist", "dermatology", "skin doctor", "skin specialist"},
	{"orthopedist", "orthopedics", "orthopaedics", "bone doctor", "joint specialist"},
	{"psychiatrist", "psychiatry", "mental health", "mental doctor"},
	{"gastroenterologist", "gastroenterology", "stomach doctor", "digestive specialist"},
	{"general physician", "general practitioner", "gp", "family doctor", "primary care", "general medicine"},
	{"dentist", "dentistry", "dental"},
	{"pediatrician", "paediatrics", "pediatrics", "child specialist"},
	{"pulmonologist", "pulmonology", "pulmunology", "lung specialist", "breathing specialist"},
	{"ent", "ent specialist", "ear nose throat", "otolaryngologist"},
	{"ophthalmologist", "ophthalmology", "eye doctor", "eye specialist"},
	{"emergency", "emergency medicine", "emergency physician"},
}

var thesaurus = buildThesaurus(specialtyClasses)

func buildThesaurus(classes [][]string) map[string][]string {
	index := make(map[string][]string)
	for _, class := range classes {
		for _, name := range class {
			index[name] = class
		}
	}
	return index
}

// Expand returns the synonym set of specialty. The lower-cased input is
// always the first element; unknown specialties expand to themselves.
func Expand(specialty string) []string {
	key := strings.ToLower(strings.TrimSpace(specialty))
	out := []string{key}
	for _, name := range thesaurus[key] {
		if name != key {
			out = append(out, name)
		}
	}
	return out
}

// KnownSpecialties lists every name the thesaurus understands.
func KnownSpecialties() []string {
	out := make([]string, 0, len(thesaurus))
	for _, class := range specialtyClasses {
		out = append(out, class...)
	}
	return out
}
