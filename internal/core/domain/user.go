package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User models an authenticated data-entry operator or administrator.
// Department scopes which collections the user's requests may touch; admins
// bypass the department gate entirely.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID   string             `bson:"employee_id" json:"employee_id"`
	Name         string             `bson:"name" json:"name"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Department   string             `bson:"department" json:"department"`
	Role         string             `bson:"role" json:"role"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// NormalizeEmployeeID canonicalizes employee ids; they are stored and looked
// up uppercased so badge scans and manual entry agree.
func NormalizeEmployeeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// UserUpdatableFields is the allow-list of user fields an admin PUT may
// change, each bound to its expected value type.
var UserUpdatableFields = map[string]FieldKind{
	"name":       StringField,
	"department": StringField,
	"role":       StringField,
	"is_active":  BoolField,
}

// ValidateUserUpdate checks an admin PUT field map against the allow-list and
// the expected value types, mirroring ValidateEntryUpdate for the users
// collection.
func ValidateUserUpdate(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		kind, ok := UserUpdatableFields[k]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotAllowed, k)
		}
		coerced, err := coerceField(k, v, kind)
		if err != nil {
			return nil, err
		}
		out[k] = coerced
	}
	return out, nil
}

// LoginActivity is an append-only audit record written on every successful
// login. It is never mutated or deleted by the application.
type LoginActivity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	EmployeeID string             `bson:"employee_id" json:"employee_id"`
	Department string             `bson:"department" json:"department"`
	IP         string             `bson:"ip" json:"ip"`
	UserAgent  string             `bson:"user_agent" json:"user_agent"`
	LoginAt    time.Time          `bson:"login_at" json:"login_at"`
}
