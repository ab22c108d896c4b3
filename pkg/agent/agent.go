package agent

import (
	"regexp"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var contactPattern = regexp.MustCompile(`^[0-9]{10}$`)

type Agent struct {
	Id            string    `json:"id"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contactNumber"`
	Email         string    `json:"email"`
	Agency        string    `json:"agency"`
	LicenseNumber string    `json:"licenseNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Validate returns one entry per rejected field.
func (agent *Agent) Validate() []string {
	problems := []string{}
	if len(agent.Name) < 3 {
		problems = append(problems, "name must be at least 3 characters")
	}
	if !contactPattern.MatchString(agent.ContactNumber) {
		problems = append(problems, "contactNumber must be exactly 10 digits")
	}
	if !emailPattern.MatchString(agent.Email) {
		problems = append(problems, "email must be a valid email address")
	}
	if agent.Agency == "" {
		problems = append(problems, "agency is required")
	}
	if agent.LicenseNumber == "" {
		problems = append(problems, "licenseNumber is required")
	}
	return problems
}
