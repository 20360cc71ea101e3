package invitation

import "errors"

var (
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrInvitationAlreadyUsed = errors.New("this invitation has already been used")
	ErrEmailAlreadyInvited   = errors.New("email already has a pending invitation")
	ErrEmailAlreadyMember    = errors.New("a user with this email already exists")
)
