package dashboard

import (
	"strings"

	"github.com/wuwenbin0122/user-console/internal/models"
)

// Filter returns the users whose username contains term, ignoring case.
// The input slice is never modified and an empty term keeps every user.
func Filter(users []models.User, term string) []models.User {
	needle := strings.ToLower(term)
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), needle) {
			out = append(out, u)
		}
	}
	return out
}
