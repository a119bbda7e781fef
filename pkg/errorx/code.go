package errorx

type Code int

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	AlreadyExists    Code = 100005
	Internal         Code = 100006
	Unavailable      Code = 100007
	NotImplemented   Code = 100008

	// Participation codes
	ShiftNotJoinable Code = 200001
	DuplicateRequest Code = 200002
	OverlapConflict  Code = 200003
	NoCapacity       Code = 200004
	NotPending       Code = 200005
	NotCancelable    Code = 200006
)
