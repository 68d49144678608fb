package services

import (
	"errors"
	"testing"
	"time"

	"github.com/confhub/conference-api/internal/models"
	"github.com/confhub/conference-api/internal/notifications"
	"github.com/confhub/conference-api/internal/repository"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published messages in place of a broker.
type recordingPublisher struct {
	messages []notifications.IssueReported
	err      error
}

func (p *recordingPublisher) PublishIssueReported(msg notifications.IssueReported) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

type issueTestEnv struct {
	service    *IssueService
	confRepo   repository.ConferenceRepository
	issueRepo  repository.IssueRepository
	publisher  *recordingPublisher
	conference models.Conference
}

func setupIssueTestEnv(t *testing.T) issueTestEnv {
	t.Helper()
	db := setupServiceTestDB(t)
	confRepo := repository.NewConferenceRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	publisher := &recordingPublisher{}

	service := NewIssueService(issueRepo, confRepo, publisher)
	service.SetClock(func() time.Time { return testNow })

	conference := approvedConference("Troubled Conf")
	require.NoError(t, confRepo.Create(&conference))

	return issueTestEnv{
		service:    service,
		confRepo:   confRepo,
		issueRepo:  issueRepo,
		publisher:  publisher,
		conference: conference,
	}
}

func TestIssueService_ReportIssue(t *testing.T) {
	env := setupIssueTestEnv(t)

	issue, err := env.service.ReportIssue(ReportIssueInput{
		ConferenceID: env.conference.ID,
		ReporterID:   7,
		Reason:       "wrong dates",
		Description:  "The CFP closed a month ago.",
	})
	require.NoError(t, err)
	require.NotZero(t, issue.ID)
	require.True(t, issue.IsOpen())

	require.Len(t, env.publisher.messages, 1)
	require.Equal(t, env.conference.ID, env.publisher.messages[0].ConferenceID)
	require.Equal(t, "Troubled Conf", env.publisher.messages[0].ConferenceTitle)
	require.Equal(t, "wrong dates", env.publisher.messages[0].Reason)
}

func TestIssueService_ReportIssue_RequiresReason(t *testing.T) {
	env := setupIssueTestEnv(t)

	_, err := env.service.ReportIssue(ReportIssueInput{
		ConferenceID: env.conference.ID,
		ReporterID:   7,
	})
	require.ErrorIs(t, err, ErrIssueReasonMissing)
	require.Empty(t, env.publisher.messages)
}

func TestIssueService_ReportIssue_UnknownConference(t *testing.T) {
	env := setupIssueTestEnv(t)

	_, err := env.service.ReportIssue(ReportIssueInput{
		ConferenceID: 12345,
		ReporterID:   7,
		Reason:       "spam",
	})
	require.ErrorIs(t, err, ErrConferenceNotFound)
}

func TestIssueService_ReportIssue_PublishFailureIsSwallowed(t *testing.T) {
	env := setupIssueTestEnv(t)
	env.publisher.err = errors.New("broker down")

	issue, err := env.service.ReportIssue(ReportIssueInput{
		ConferenceID: env.conference.ID,
		ReporterID:   7,
		Reason:       "spam",
	})
	require.NoError(t, err)
	require.NotZero(t, issue.ID)
}

func TestIssueService_FlagRequiresExplicitRefresh(t *testing.T) {
	env := setupIssueTestEnv(t)

	conference := env.conference
	require.NoError(t, env.service.RefreshFlag(&conference))
	require.False(t, conference.IsFlagged())

	_, err := env.service.ReportIssue(ReportIssueInput{
		ConferenceID: conference.ID,
		ReporterID:   7,
		Reason:       "spam",
	})
	require.NoError(t, err)

	// Stale until refreshed.
	require.False(t, conference.IsFlagged())

	require.NoError(t, env.service.RefreshFlag(&conference))
	require.True(t, conference.IsFlagged())
}

func TestIssueService_CloseIssue(t *testing.T) {
	env := setupIssueTestEnv(t)

	issue, err := env.service.ReportIssue(ReportIssueInput{
		ConferenceID: env.conference.ID,
		ReporterID:   7,
		Reason:       "spam",
	})
	require.NoError(t, err)

	closed, err := env.service.CloseIssue(issue.ID, 1, "confirmed and fixed")
	require.NoError(t, err)
	require.False(t, closed.IsOpen())
	require.Equal(t, testNow, closed.ClosedAt.UTC())
	require.Equal(t, uint64(1), *closed.ClosedBy)
	require.Equal(t, "confirmed and fixed", closed.AdminNote)
}

func TestIssueService_CloseIssue_AlreadyClosed(t *testing.T) {
	env := setupIssueTestEnv(t)

	issue, err := env.service.ReportIssue(ReportIssueInput{
		ConferenceID: env.conference.ID,
		ReporterID:   7,
		Reason:       "spam",
	})
	require.NoError(t, err)

	_, err = env.service.CloseIssue(issue.ID, 1, "done")
	require.NoError(t, err)

	_, err = env.service.CloseIssue(issue.ID, 1, "again")
	require.ErrorIs(t, err, ErrIssueAlreadyClosed)
}

func TestIssueService_CloseIssue_NotFound(t *testing.T) {
	env := setupIssueTestEnv(t)

	_, err := env.service.CloseIssue(12345, 1, "")
	require.ErrorIs(t, err, ErrIssueNotFound)
}

func TestIssueService_ListOpenIssues(t *testing.T) {
	env := setupIssueTestEnv(t)

	first, err := env.service.ReportIssue(ReportIssueInput{
		ConferenceID: env.conference.ID,
		ReporterID:   7,
		Reason:       "spam",
	})
	require.NoError(t, err)

	second, err := env.service.ReportIssue(ReportIssueInput{
		ConferenceID: env.conference.ID,
		ReporterID:   8,
		Reason:       "wrong dates",
	})
	require.NoError(t, err)

	_, err = env.service.CloseIssue(first.ID, 1, "handled")
	require.NoError(t, err)

	open, err := env.service.ListOpenIssues()
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, second.ID, open[0].ID)
}
