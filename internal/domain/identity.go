package domain

// Identity is the (user id, user type) pair a session runs under, plus the
// optional display details kept alongside it.
type Identity struct {
	UserID   string
	UserType UserType
	Name     string
	Email    string
}

func (i Identity) Valid() bool {
	return i.UserID != "" && i.UserType.Valid()
}
