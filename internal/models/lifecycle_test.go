package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_Table(t *testing.T) {
	cases := []struct {
		action   LifecycleAction
		from     AccountStatus
		want     AccountStatus
		verified bool
		err      error
	}{
		{ActionApprove, StatusActive, StatusActive, true, nil},
		{ActionApprove, StatusInactive, StatusActive, true, nil},
		{ActionApprove, StatusSuspended, StatusSuspended, true, nil},
		{ActionApprove, StatusDeleted, StatusDeleted, false, ErrTransitionNotAllowed},

		{ActionSuspend, StatusActive, StatusSuspended, false, nil},
		{ActionSuspend, StatusInactive, StatusSuspended, false, nil},
		{ActionSuspend, StatusDeleted, StatusDeleted, false, ErrTransitionNotAllowed},

		{ActionUnsuspend, StatusSuspended, StatusActive, false, nil},
		{ActionUnsuspend, StatusInactive, StatusActive, false, nil},
		{ActionUnsuspend, StatusDeleted, StatusDeleted, false, nil},

		{ActionBan, StatusActive, StatusDeleted, false, nil},
		{ActionBan, StatusSuspended, StatusDeleted, false, nil},
		{ActionBan, StatusDeleted, StatusDeleted, false, nil},

		{ActionActivate, StatusInactive, StatusActive, false, nil},
		{ActionActivate, StatusSuspended, StatusSuspended, false, nil},
		{ActionActivate, StatusDeleted, StatusDeleted, false, ErrTransitionNotAllowed},

		{ActionDeactivate, StatusActive, StatusInactive, false, nil},
		{ActionDeactivate, StatusSuspended, StatusSuspended, false, nil},
		{ActionDeactivate, StatusDeleted, StatusDeleted, false, nil},
	}

	for _, tc := range cases {
		t.Run(string(tc.action)+"_from_"+string(tc.from), func(t *testing.T) {
			u := &User{Role: RoleUser, Status: tc.from}
			err := Transition(u, tc.action)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, u.Status)
			assert.Equal(t, tc.verified, u.EmailVerified)
		})
	}
}

func TestTransition_AdminProtected(t *testing.T) {
	for _, a := range []LifecycleAction{ActionSuspend, ActionBan, ActionDeactivate} {
		t.Run(string(a), func(t *testing.T) {
			u := &User{Role: RoleAdmin, Status: StatusActive}
			assert.ErrorIs(t, Transition(u, a), ErrAdminProtected)
			assert.Equal(t, StatusActive, u.Status)
		})
	}

	admin := &User{Role: RoleAdmin, Status: StatusInactive}
	require.NoError(t, Transition(admin, ActionActivate))
	assert.Equal(t, StatusActive, admin.Status)
}

func TestTransition_UnknownAction(t *testing.T) {
	u := &User{Status: StatusActive}
	assert.ErrorIs(t, Transition(u, "promote"), ErrUnknownAction)

	_, ok := ParseLifecycleAction("promote")
	assert.False(t, ok)
	a, ok := ParseLifecycleAction("ban")
	assert.True(t, ok)
	assert.Equal(t, ActionBan, a)
}

func TestCheckLogin_Precedence(t *testing.T) {
	cases := []struct {
		name string
		user User
		want LoginBlock
	}{
		{"deleted and unverified", User{Status: StatusDeleted}, LoginBlockedDeleted},
		{"suspended and unverified", User{Status: StatusSuspended}, LoginBlockedSuspended},
		{"inactive and unverified", User{Status: StatusInactive}, LoginBlockedInactive},
		{"active unverified", User{Status: StatusActive}, LoginBlockedUnverified},
		{"active verified", User{Status: StatusActive, EmailVerified: true}, LoginAllowed},
		{"banned after verification", User{Status: StatusDeleted, EmailVerified: true}, LoginBlockedDeleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckLogin(&tc.user))
		})
	}
}

func TestUser_MarshalJSON_DerivedFlags(t *testing.T) {
	hash := "abc"
	u := User{
		Name:                   "Jane",
		Email:                  "jane@example.com",
		Password:               "$2a$10$secret",
		Role:                   RoleUser,
		Status:                 StatusDeleted,
		EmailVerified:          true,
		EmailVerificationToken: &hash,
	}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, true, got["isVerified"])
	assert.Equal(t, false, got["isActive"])
	assert.Equal(t, true, got["isSuspended"])
	assert.Equal(t, true, got["isDeleted"])
	assert.NotContains(t, got, "password")
	assert.NotContains(t, got, "emailVerificationToken")
}
