package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRoles CtxKey = "Roles"
)

// Role names as issued by the auth service in the token's roles claim.
const (
	RoleAdmin     = "ROLE_ADMIN"
	RoleCandidate = "ROLE_CANDIDAT"
)
