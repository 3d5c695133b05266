package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserVerificationStatus is the review outcome carried by UserVerified.
type UserVerificationStatus string

const (
	VerificationPending  UserVerificationStatus = "pending"
	VerificationLevel1   UserVerificationStatus = "level_1"
	VerificationRejected UserVerificationStatus = "rejected"
)

// UserRegistered is published once a new user finishes sign-up.
type UserRegistered struct {
	UserID     uuid.UUID
	TelegramID int64
	FirstName  string
	At         time.Time
}

// UserVerified is published when a moderator reviews a user.
type UserVerified struct {
	UserID      uuid.UUID
	Status      UserVerificationStatus
	ModeratorID int64
	At          time.Time
}

// UserDeleted shares its field layout with UserRegistered, but the two are
// distinct event types.
type UserDeleted struct {
	UserID     uuid.UUID
	TelegramID int64
	FirstName  string
	At         time.Time
}
