package domain

// Actor identifies the authenticated caller of an operation. It is built per
// request from the auth token and passed explicitly into every operation that
// checks authority.
type Actor struct {
	AccountID int64
	Role      Role
}

func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
