package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeedbackTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{FeedbackStatusOpen, FeedbackStatusAddressed, true},
		{FeedbackStatusOpen, FeedbackStatusClosed, false},
		{FeedbackStatusOpen, FeedbackStatusOpen, false},
		{FeedbackStatusAddressed, FeedbackStatusClosed, true},
		{FeedbackStatusAddressed, FeedbackStatusOpen, true},
		{FeedbackStatusClosed, FeedbackStatusOpen, true},
		{FeedbackStatusClosed, FeedbackStatusAddressed, false},
		{FeedbackStatusClosed, "RESOLVED", false},
	}

	for _, tc := range cases {
		feedback := Feedback{Status: tc.from}
		require.Equal(t, tc.allowed, feedback.CanTransitionTo(tc.to), "%s to %s", tc.from, tc.to)
	}
}
