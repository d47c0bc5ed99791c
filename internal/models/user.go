package models

// User represents an application user record.
type User struct {
	ID       string `json:"id" bson:"_id"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
	Password string `json:"password,omitempty" bson:"password"`
	Role     string `json:"role" bson:"role"`
	Image    string `json:"image" bson:"image"`
}

// Sanitize returns a copy of the user without sensitive fields populated.
func (u User) Sanitize() User {
	u.Password = ""
	return u
}

// UserCreate is the payload accepted when registering a new user.
type UserCreate struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Image    string `json:"image" validate:"required"`
}

// UserUpdate carries the only field editable after creation.
type UserUpdate struct {
	Role string `json:"role"`
}
