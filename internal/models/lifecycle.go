package models

import (
	"errors"
	"fmt"
)

type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusInactive  AccountStatus = "inactive"
	StatusSuspended AccountStatus = "suspended"
	StatusDeleted   AccountStatus = "deleted"
)

type LifecycleAction string

const (
	ActionApprove    LifecycleAction = "approve"
	ActionSuspend    LifecycleAction = "suspend"
	ActionUnsuspend  LifecycleAction = "unsuspend"
	ActionBan        LifecycleAction = "ban"
	ActionActivate   LifecycleAction = "activate"
	ActionDeactivate LifecycleAction = "deactivate"
)

var (
	ErrUnknownAction        = errors.New("unknown lifecycle action")
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrAdminProtected       = errors.New("admin accounts cannot be targeted by this action")
)

// transitions is the account state machine. A missing entry for the current
// status means the action is not allowed from it.
var transitions = map[LifecycleAction]map[AccountStatus]AccountStatus{
	ActionApprove: {
		StatusActive:    StatusActive,
		StatusInactive:  StatusActive,
		StatusSuspended: StatusSuspended,
	},
	ActionSuspend: {
		StatusActive:    StatusSuspended,
		StatusInactive:  StatusSuspended,
		StatusSuspended: StatusSuspended,
	},
	ActionUnsuspend: {
		StatusActive:    StatusActive,
		StatusInactive:  StatusActive,
		StatusSuspended: StatusActive,
		StatusDeleted:   StatusDeleted,
	},
	ActionBan: {
		StatusActive:    StatusDeleted,
		StatusInactive:  StatusDeleted,
		StatusSuspended: StatusDeleted,
		StatusDeleted:   StatusDeleted,
	},
	ActionActivate: {
		StatusActive:    StatusActive,
		StatusInactive:  StatusActive,
		StatusSuspended: StatusSuspended,
	},
	ActionDeactivate: {
		StatusActive:    StatusInactive,
		StatusInactive:  StatusInactive,
		StatusSuspended: StatusSuspended,
		StatusDeleted:   StatusDeleted,
	},
}

var adminProtected = map[LifecycleAction]bool{
	ActionSuspend:    true,
	ActionBan:        true,
	ActionDeactivate: true,
}

func ParseLifecycleAction(s string) (LifecycleAction, bool) {
	a := LifecycleAction(s)
	_, ok := transitions[a]
	return a, ok
}

// Transition applies action to u in place. u is left untouched on error.
func Transition(u *User, action LifecycleAction) error {
	table, ok := transitions[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if adminProtected[action] && u.IsAdmin() {
		return ErrAdminProtected
	}
	next, ok := table[u.Status]
	if !ok {
		return fmt.Errorf("%w: cannot %s a %s account", ErrTransitionNotAllowed, action, u.Status)
	}
	u.Status = next
	if action == ActionApprove {
		u.EmailVerified = true
	}
	return nil
}

// LoginBlock is the first reason, in precedence order, an account may not
// log in. Deletion and suspension outrank the verification reminder.
type LoginBlock int

const (
	LoginAllowed LoginBlock = iota
	LoginBlockedDeleted
	LoginBlockedSuspended
	LoginBlockedInactive
	LoginBlockedUnverified
)

func CheckLogin(u *User) LoginBlock {
	switch {
	case u.Status == StatusDeleted:
		return LoginBlockedDeleted
	case u.Status == StatusSuspended:
		return LoginBlockedSuspended
	case u.Status != StatusActive:
		return LoginBlockedInactive
	case !u.EmailVerified:
		return LoginBlockedUnverified
	}
	return LoginAllowed
}
