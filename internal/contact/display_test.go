package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		view View
		want Attributes
	}{
		{
			name: "idle",
			view: View{State: StateIdle},
			want: Attributes{ButtonLabel: "Send Message"},
		},
		{
			name: "submitting",
			view: View{State: StateSubmitting, Draft: jane},
			want: Attributes{ButtonLabel: "Sending...", ButtonDisabled: true},
		},
		{
			name: "succeeded",
			view: View{State: StateSucceeded, Status: StatusSent},
			want: Attributes{
				ButtonLabel: "Send Message",
				StatusText:  StatusSent,
				StatusClass: "text-green-400",
				ShowStatus:  true,
			},
		},
		{
			name: "failed",
			view: View{State: StateFailed, Status: StatusFailed, Draft: jane},
			want: Attributes{
				ButtonLabel: "Send Message",
				StatusText:  StatusFailed,
				StatusClass: "text-red-400",
				ShowStatus:  true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Display(tt.view))
		})
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseField("subject")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(jane))

	bad := []Message{
		{Email: "jane@example.com", Message: "Hello"},
		{Name: "Jane", Message: "Hello"},
		{Name: "Jane", Email: "not-an-email", Message: "Hello"},
		{Name: "Jane", Email: "jane@example.com"},
		{},
	}
	for _, m := range bad {
		assert.Error(t, Validate(m), "%+v", m)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
