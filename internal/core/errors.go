package core

import (
	"errors"
	"fmt"
)

// Error codes for user-facing errors.
const (
	ErrCodeInvalidCharacter = "invalid_character"
	ErrCodeCharacterTaken   = "character_taken"
	ErrCodeShownameTooLong  = "showname_too_long"
	ErrCodeShownameInUse    = "showname_in_use"
	ErrCodeSelfFollow       = "self_follow"
	ErrCodeAlreadyFollowing = "already_following"
	ErrCodeNotFollowing     = "not_following"
	ErrCodeInvalidPosition  = "invalid_position"
	ErrCodeAlreadyLoggedIn  = "already_logged_in"
	ErrCodeInvalidPassword  = "invalid_password"
	ErrCodeFlooding         = "flooding"
	ErrCodeRestricted       = "restricted"
	ErrCodeLightsOff        = "lights_off"
	ErrCodeUnknownTrack     = "unknown_track"
)

var (
	// ErrInvalidAction is the kind shared by every user-facing error.
	ErrInvalidAction = errors.New("invalid action")
	// ErrUnknownEntity is the kind of errors about areas or clients that do not exist.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrCapacity is returned when no client slot is free.
	ErrCapacity = errors.New("server is full")
)

// UserError is an invalid request given current state. It is reported to
// the originating client only and never leaves state half-changed.
type UserError struct {
	Code    string
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return ErrInvalidAction
}

func userError(code, msg string) *UserError {
	return &UserError{Code: code, Message: msg}
}

// MoveReason identifies which area change precondition failed.
type MoveReason string

const (
	ReasonHandicapped     MoveReason = "handicapped"
	ReasonLobbySneaking   MoveReason = "lobby_sneaking"
	ReasonPrivateSneaking MoveReason = "private_sneaking"
	ReasonAlreadyThere    MoveReason = "already_there"
	ReasonLocked          MoveReason = "locked"
	ReasonGMLocked        MoveReason = "gm_locked"
	ReasonModLocked       MoveReason = "mod_locked"
	ReasonUnreachable     MoveReason = "unreachable"
	ReasonNoCharacters    MoveReason = "no_characters"
)

// MovementError is the user-facing rejection of an area change.
type MovementError struct {
	Reason  MoveReason
	Message string
}

func (e *MovementError) Error() string {
	return e.Message
}

func (e *MovementError) Unwrap() error {
	return ErrInvalidAction
}

func moveError(reason MoveReason, msg string) *MovementError {
	return &MovementError{Reason: reason, Message: msg}
}

// WorldError reports a reference to an area or client that does not exist.
type WorldError struct {
	Kind string
	Ref  string
}

func (e *WorldError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Kind, e.Ref)
}

func (e *WorldError) Unwrap() error {
	return ErrUnknownEntity
}

// CapacityError is returned when every client slot is taken.
type CapacityError struct {
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("server is full (%d players)", e.Limit)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacity
}

// UserMessage returns the text to show the originating client when err is user facing.
func UserMessage(err error) (string, bool) {
	if err == nil || !errors.Is(err, ErrInvalidAction) {
		return "", false
	}
	return err.Error(), true
}
