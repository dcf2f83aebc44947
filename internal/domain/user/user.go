// Package user holds the user projection the discovery engine consumes:
// an identity plus the set of stores it has hearted.
package user

// User is the slice of the identity record this service reads.
type User struct {
	id     string
	hearts []string
}

// Reconstruct creates a User from persisted state.
func Reconstruct(id string, hearts []string) User {
	return User{id: id, hearts: hearts}
}

// ID returns the user identifier.
func (u *User) ID() string { return u.id }

// Hearts returns the store ids the user has favorited.
func (u *User) Hearts() []string { return u.hearts }

// HasHearted reports whether the user has favorited the given store.
func (u *User) HasHearted(storeID string) bool {
	for _, id := range u.hearts {
		if id == storeID {
			return true
		}
	}
	return false
}
