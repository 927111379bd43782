package intake

import "strings"

const defaultSpecialty = "general physician"

// symptomSpecialties is scanned in order; the first keyword contained in
// the condition decides the specialty.
var symptomSpecialties = []struct {
	keyword   string
	specialty string
}{
	{"fever", "general physician"},
	{"sore throat", "general physician"},
	{"headache", "neurology"},
	{"heart", "cardiologist"},
	{"chest", "cardiologist"},
	{"chest pain", "cardiologist"},
	{"skin", "dermatologist"},
	{"rash", "dermatologist"},
	{"anxiety", "psychiatrist"},
	{"depression", "psychiatrist"},
	{"stomach", "gastroenterologist"},
	{"nausea", "gastroenterologist"},
	{"bone", "orthopedist"},
	{"joint", "orthopedist"},
	{"eye", "ophthalmologist"},
	{"vision", "ophthalmologist"},
	{"ear", "general physician"},
	{"throat", "general physician"},
	{"nose", "general physician"},
	{"bleeding", "emergency"},
	{"heart attack", "cardiologist"},
	{"stroke", "neurology"},
	{"seizure", "neurology"},
	{"shortness of breath", "pulmunology"},
	{"breathing", "pulmunology"},
	{"breath", "pulmunology"},
	{"cough", "pulmunology"},
	{"cold", "general physician"},
	{"flu", "general physician"},
	{"infection", "general physician"},
	{"child", "paediatrics"},
	{"baby", "paediatrics"},
	{"infant", "paediatrics"},
	{"tooth", "dentistry"},
	{"dental", "dentistry"},
	{"teeth", "dentistry"},
}

// SpecialtyFor maps a free-text condition to the specialty to search for.
func SpecialtyFor(condition string) string {
	c := strings.ToLower(condition)
	for _, s := range symptomSpecialties {
		if strings.Contains(c, s.keyword) {
			return s.specialty
		}
	}
	return defaultSpecialty
}
