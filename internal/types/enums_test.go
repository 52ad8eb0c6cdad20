package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberRoleValid(t *testing.T) {
	for _, r := range ValidMemberRoles {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, MemberRole("Owner").Valid())
	assert.False(t, MemberRole("").Valid())
}

func TestStatusRanges(t *testing.T) {
	assert.True(t, ChargeStopped.Valid())
	assert.False(t, ChargeStatus(8).Valid())
	assert.False(t, ChargeStatus(-1).Valid())
	assert.Equal(t, "Completed", ChargeCompleted.String())

	assert.True(t, ActionOnHold.Valid())
	assert.False(t, ActionStatus(7).Valid())

	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority(3).Valid())
}

func TestNotificationTypeValid(t *testing.T) {
	assert.True(t, UserRequest.Valid())
	assert.False(t, NotificationType("Other").Valid())
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{`2`, 2, true},
		{`"1"`, 1, true},
		{`1.5`, 0, false},
		{`"high"`, 0, false},
		{`null`, 0, false},
		{``, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseInt(json.RawMessage(tc.raw))
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}
