// internal/domain/directory/entity.go
package directory

import "context"

// Account is a school-system principal: a student, teacher or admin.
type Account struct {
	Subject      string   `json:"subject"`
	Username     string   `json:"username"`
	FullName     string   `json:"full_name"`
	Roles        []string `json:"roles"`
	PasswordHash string   `json:"-"`
}

// HasRole checks if the account carries a specific role
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CredentialStore looks up accounts for authentication and directory reads.
// Implementations return (nil, nil) when no account matches.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindBySubject(ctx context.Context, subject string) (*Account, error)
	ListByRole(ctx context.Context, role string, limit int) ([]*Account, error)
}
