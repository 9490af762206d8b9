package domain

// Principal is the authenticated caller, resolved from a verified access
// token at the HTTP boundary and passed explicitly into every core operation.
// Passing it as a value instead of reading ambient security state keeps the
// services free of hidden dependencies and trivial to test.
type Principal struct {
	UserID string
	Email  string
	Role   UserRole
}
