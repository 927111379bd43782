package intake

import (
	"fmt"
	"strings"

	"github.com/SaiNageswarS/medbook-agent/directory"
)

const (
	ApologyMessage  = "I'm having trouble processing your request right now. Please try again later."
	NoDoctorMessage = "I apologize, but I couldn't find any doctors in our database who specialize in treating your condition at the moment. Please try again later or contact our support team for assistance."
)

func renderDoctorList(doctors []directory.Doctor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Great! I found %d doctors who can help with your condition:\n\n", len(doctors))
	for i, d := range doctors {
		location := d.Location
		if location == "" {
			location = "Unknown location"
		}
		fmt.Fprintf(&b, "%d. **%s** - %s, %s\n", i+1, d.Name, d.Specialization, location)
	}
	b.WriteString("\nThese are real doctors from our database who specialize in treating conditions like yours. ")
	b.WriteString("Please let me know which doctor you'd like to book with, and I can help schedule your appointment!")
	return b.String()
}
