package category

import (
	"time"
)

type Category struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns one entry per rejected field.
func (category *Category) Validate() []string {
	problems := []string{}
	if len(category.Name) < 2 {
		problems = append(problems, "name must be at least 2 characters")
	}
	return problems
}
