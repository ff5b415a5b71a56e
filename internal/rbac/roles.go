package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
//
// agent uploads recordings and follows their progress; reviewer
// approves or rejects extractions; admin can do both and sees every
// recording.
const (
	RoleAgent    = "agent"
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

func IsAdmin(role string) bool { return role == RoleAdmin }
