package user

// Principal identifies an authenticated caller.
type Principal struct {
	UserID string
	Email  string
	Role   string
}
