package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConferenceIssue_IsOpen(t *testing.T) {
	issue := ConferenceIssue{}
	require.True(t, issue.IsOpen())

	closedAt := time.Date(2023, 5, 4, 12, 0, 0, 0, time.UTC)
	issue.ClosedAt = &closedAt
	require.False(t, issue.IsOpen())
}

func TestSubmission_Outcome(t *testing.T) {
	submission := Submission{}
	require.False(t, submission.IsAccepted())
	require.False(t, submission.IsRejected())

	at := time.Date(2023, 5, 4, 12, 0, 0, 0, time.UTC)
	submission.AcceptedAt = &at
	require.True(t, submission.IsAccepted())

	submission = Submission{RejectedAt: &at}
	require.True(t, submission.IsRejected())
}
