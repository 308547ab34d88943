package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		location string
		wantDeny bool
		required string
	}{
		{
			name:     "eject warp core from bridge denied",
			text:     "Computer, eject warp core now",
			location: "Bridge",
			wantDeny: true,
			required: "Engineering",
		},
		{
			name:     "eject warp core from engineering allowed",
			text:     "eject warp core",
			location: "Engineering",
			wantDeny: false,
		},
		{
			name:     "case insensitive match",
			text:     "EJECT WARP CORE",
			location: "Bridge",
			wantDeny: true,
			required: "Engineering",
		},
		{
			name:     "medical override outside sickbay",
			text:     "initiate medical override for deck 5",
			location: "Bridge",
			wantDeny: true,
			required: "Sickbay",
		},
		{
			name:     "jettison cargo from cargo bay allowed",
			text:     "jettison cargo pod 3",
			location: "Cargo Bay",
			wantDeny: false,
		},
		{
			name:     "unrestricted command anywhere",
			text:     "raise shields",
			location: "Sickbay",
			wantDeny: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			denial := Check(tt.text, tt.location)
			if !tt.wantDeny {
				assert.Nil(t, denial)
				return
			}
			require.NotNil(t, denial)
			assert.Equal(t, tt.required, denial.RequiredLocation)
			assert.Equal(t, tt.location, denial.CurrentLocation)
			assert.Contains(t, denial.Response(), "Access Denied")
			assert.Contains(t, denial.Response(), tt.required)
		})
	}
}
