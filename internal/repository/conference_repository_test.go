package repository

import (
	"testing"
	"time"

	"github.com/confhub/conference-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2023, 5, 4, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Conference{},
		&models.ConferenceIssue{},
		&models.ConferenceFavorite{},
		&models.ConferenceDismissal{},
		&models.Talk{},
		&models.Submission{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// approvedConference builds an approved conference with sensible
// defaults; tests override the fields they care about.
func approvedConference(title string) models.Conference {
	approved := testNow.AddDate(0, -1, 0)
	return models.Conference{
		Title:      title,
		AuthorID:   1,
		HasCfp:     true,
		StartsAt:   datePtr(2023, 6, 1),
		EndsAt:     datePtr(2023, 6, 3),
		ApprovedAt: &approved,
	}
}

func titles(conferences []models.Conference) []string {
	result := make([]string, 0, len(conferences))
	for _, c := range conferences {
		result = append(result, c.Title)
	}
	return result
}

func TestConferenceRepository_List_OnlyApprovedAndNotRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	approved := approvedConference("Approved Conf")
	require.NoError(t, repo.Create(&approved))

	pending := approvedConference("Pending Conf")
	pending.ApprovedAt = nil
	require.NoError(t, repo.Create(&pending))

	rejected := approvedConference("Rejected Conf")
	rejected.RejectedAt = &testNow
	require.NoError(t, repo.Create(&rejected))

	conferences, total, err := repo.List(ConferenceFilter{
		Filter: FilterAll,
		Sort:   SortDate,
		Now:    testNow,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, []string{"Approved Conf"}, titles(conferences))
}

func TestConferenceRepository_List_AdminSeesRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	rejected := approvedConference("Rejected Conf")
	rejected.RejectedAt = &testNow
	require.NoError(t, repo.Create(&rejected))

	conferences, _, err := repo.List(ConferenceFilter{
		Filter:        FilterAll,
		Sort:          SortDate,
		Now:           testNow,
		ViewerIsAdmin: true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Rejected Conf"}, titles(conferences))
}

func TestConferenceRepository_List_OrdersByDateThenID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	later := approvedConference("Later")
	later.StartsAt = datePtr(2023, 7, 1)
	require.NoError(t, repo.Create(&later))

	earlier := approvedConference("Earlier")
	earlier.StartsAt = datePtr(2023, 6, 1)
	require.NoError(t, repo.Create(&earlier))

	sameDate := approvedConference("Same Date, Higher ID")
	sameDate.StartsAt = datePtr(2023, 6, 1)
	require.NoError(t, repo.Create(&sameDate))

	conferences, _, err := repo.List(ConferenceFilter{
		Filter: FilterAll,
		Sort:   SortDate,
		Now:    testNow,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Earlier", "Same Date, Higher ID", "Later"}, titles(conferences))
}

func TestConferenceRepository_List_SortDropsRowsMissingColumn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	withCfp := approvedConference("With CFP Opening")
	withCfp.CfpStartsAt = datePtr(2023, 5, 10)
	require.NoError(t, repo.Create(&withCfp))

	withoutCfp := approvedConference("Without CFP Opening")
	require.NoError(t, repo.Create(&withoutCfp))

	conferences, _, err := repo.List(ConferenceFilter{
		Filter: FilterAll,
		Sort:   SortCfpOpeningNext,
		Now:    testNow,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"With CFP Opening"}, titles(conferences))
}

func TestConferenceRepository_List_FutureFilterFollowsSortColumn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	// Past event with a CFP opening still ahead.
	pastEventFutureCfp := approvedConference("Past Event, Future CFP")
	pastEventFutureCfp.StartsAt = datePtr(2023, 4, 1)
	pastEventFutureCfp.EndsAt = datePtr(2023, 4, 3)
	pastEventFutureCfp.CfpStartsAt = datePtr(2023, 6, 1)
	require.NoError(t, repo.Create(&pastEventFutureCfp))

	// Future event whose CFP already opened.
	futureEventPastCfp := approvedConference("Future Event, Past CFP")
	futureEventPastCfp.CfpStartsAt = datePtr(2023, 3, 1)
	require.NoError(t, repo.Create(&futureEventPastCfp))

	byDate, _, err := repo.List(ConferenceFilter{
		Filter: FilterFuture,
		Sort:   SortDate,
		Now:    testNow,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Future Event, Past CFP"}, titles(byDate))

	byCfpOpening, _, err := repo.List(ConferenceFilter{
		Filter: FilterFuture,
		Sort:   SortCfpOpeningNext,
		Now:    testNow,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Past Event, Future CFP"}, titles(byCfpOpening))
}

func TestConferenceRepository_List_OpenCfp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	open := approvedConference("Open CFP")
	open.CfpStartsAt = datePtr(2023, 5, 1)
	open.CfpEndsAt = datePtr(2023, 5, 31)
	require.NoError(t, repo.Create(&open))

	closed := approvedConference("Closed CFP")
	closed.CfpStartsAt = datePtr(2023, 3, 1)
	closed.CfpEndsAt = datePtr(2023, 3, 31)
	require.NoError(t, repo.Create(&closed))

	// CFP window open but the event itself already over.
	pastEvent := approvedConference("Past Event")
	pastEvent.StartsAt = datePtr(2023, 4, 1)
	pastEvent.EndsAt = datePtr(2023, 4, 3)
	pastEvent.CfpStartsAt = datePtr(2023, 5, 1)
	pastEvent.CfpEndsAt = datePtr(2023, 5, 31)
	require.NoError(t, repo.Create(&pastEvent))

	noCfp := approvedConference("No CFP")
	noCfp.HasCfp = false
	noCfp.CfpStartsAt = datePtr(2023, 5, 1)
	noCfp.CfpEndsAt = datePtr(2023, 5, 31)
	require.NoError(t, repo.Create(&noCfp))

	conferences, _, err := repo.List(ConferenceFilter{
		Filter: FilterOpenCfp,
		Sort:   SortDate,
		Now:    testNow,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Open CFP"}, titles(conferences))
}

func TestConferenceRepository_List_FutureCfp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	future := approvedConference("Opens Later")
	future.CfpStartsAt = datePtr(2023, 6, 1)
	require.NoError(t, repo.Create(&future))

	alreadyOpen := approvedConference("Already Open")
	alreadyOpen.CfpStartsAt = datePtr(2023, 5, 1)
	require.NoError(t, repo.Create(&alreadyOpen))

	conferences, _, err := repo.List(ConferenceFilter{
		Filter: FilterFutureCfp,
		Sort:   SortDate,
		Now:    testNow,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Opens Later"}, titles(conferences))
}

func TestConferenceRepository_List_UnclosedCfp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	stillOpen := approvedConference("Still Open")
	stillOpen.CfpEndsAt = datePtr(2023, 5, 31)
	require.NoError(t, repo.Create(&stillOpen))

	// No closing date recorded counts as unclosed.
	noClose := approvedConference("No Closing Date")
	require.NoError(t, repo.Create(&noClose))

	closed := approvedConference("Closed")
	closed.CfpEndsAt = datePtr(2023, 4, 30)
	require.NoError(t, repo.Create(&closed))

	conferences, _, err := repo.List(ConferenceFilter{
		Filter: FilterUnclosedCfp,
		Sort:   SortDate,
		Now:    testNow,
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Still Open", "No Closing Date"}, titles(conferences))
}

func TestConferenceRepository_List_DismissalsHiddenExceptDismissedFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	kept := approvedConference("Kept")
	require.NoError(t, repo.Create(&kept))

	dismissed := approvedConference("Dismissed")
	require.NoError(t, repo.Create(&dismissed))
	require.NoError(t, repo.AddDismissal(dismissed.ID, 7))

	visible, _, err := repo.List(ConferenceFilter{
		Filter:   FilterAll,
		Sort:     SortDate,
		Now:      testNow,
		ViewerID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Kept"}, titles(visible))

	dismissedOnly, _, err := repo.List(ConferenceFilter{
		Filter:   FilterDismissed,
		Sort:     SortDate,
		Now:      testNow,
		ViewerID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Dismissed"}, titles(dismissedOnly))

	// Another viewer's dismissal changes nothing.
	other, _, err := repo.List(ConferenceFilter{
		Filter:   FilterAll,
		Sort:     SortDate,
		Now:      testNow,
		ViewerID: 8,
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Kept", "Dismissed"}, titles(other))
}

func TestConferenceRepository_List_Favorites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	favorited := approvedConference("Favorited")
	require.NoError(t, repo.Create(&favorited))
	require.NoError(t, repo.AddFavorite(favorited.ID, 7))

	plain := approvedConference("Plain")
	require.NoError(t, repo.Create(&plain))

	conferences, _, err := repo.List(ConferenceFilter{
		Filter:   FilterFavorites,
		Sort:     SortDate,
		Now:      testNow,
		ViewerID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Favorited"}, titles(conferences))
}

func TestConferenceRepository_List_MonthWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	may := approvedConference("May Conf")
	may.StartsAt = datePtr(2023, 5, 15)
	require.NoError(t, repo.Create(&may))

	lastOfMay := approvedConference("Last Of May")
	lastOfMay.StartsAt = datePtr(2023, 5, 31)
	require.NoError(t, repo.Create(&lastOfMay))

	june := approvedConference("June Conf")
	june.StartsAt = datePtr(2023, 6, 1)
	require.NoError(t, repo.Create(&june))

	conferences, _, err := repo.List(ConferenceFilter{
		Filter: FilterAll,
		Sort:   SortDate,
		Now:    testNow,
		Year:   2023,
		Month:  time.May,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"May Conf", "Last Of May"}, titles(conferences))
}

func TestConferenceRepository_List_MonthWindowFollowsSortColumn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	// Event in June, CFP closing in May.
	conference := approvedConference("CFP Closes In May")
	conference.StartsAt = datePtr(2023, 6, 15)
	conference.CfpEndsAt = datePtr(2023, 5, 20)
	require.NoError(t, repo.Create(&conference))

	byDate, _, err := repo.List(ConferenceFilter{
		Filter: FilterAll,
		Sort:   SortDate,
		Now:    testNow,
		Year:   2023,
		Month:  time.May,
	})
	require.NoError(t, err)
	require.Empty(t, byDate)

	byCfpClosing, _, err := repo.List(ConferenceFilter{
		Filter: FilterAll,
		Sort:   SortCfpClosingNext,
		Now:    testNow,
		Year:   2023,
		Month:  time.May,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"CFP Closes In May"}, titles(byCfpClosing))
}

func TestConferenceRepository_List_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	for day := 1; day <= 5; day++ {
		conference := approvedConference("Conf")
		conference.StartsAt = datePtr(2023, 6, day)
		require.NoError(t, repo.Create(&conference))
	}

	page, total, err := repo.List(ConferenceFilter{
		Filter:   FilterAll,
		Sort:     SortDate,
		Now:      testNow,
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	require.True(t, page[0].StartsAt.Equal(*datePtr(2023, 6, 3)))
}

func TestConferenceRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	matching := approvedConference("GopherCon Europe")
	require.NoError(t, repo.Create(&matching))

	byLocation := approvedConference("Cloud Summit")
	byLocation.Location = "Berlin, Germany"
	require.NoError(t, repo.Create(&byLocation))

	past := approvedConference("GopherCon 2022")
	past.StartsAt = datePtr(2022, 6, 1)
	past.EndsAt = datePtr(2022, 6, 3)
	require.NoError(t, repo.Create(&past))

	rejected := approvedConference("GopherCon Rejected")
	rejected.RejectedAt = &testNow
	require.NoError(t, repo.Create(&rejected))

	results, err := repo.Search("GopherCon", testNow)
	require.NoError(t, err)
	require.Equal(t, []string{"GopherCon Europe"}, titles(results))

	results, err = repo.Search("Berlin", testNow)
	require.NoError(t, err)
	require.Equal(t, []string{"Cloud Summit"}, titles(results))
}

func TestConferenceRepository_ModerationRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	conference := approvedConference("Moderated")
	require.NoError(t, repo.Create(&conference))

	require.NoError(t, repo.Reject(conference.ID, testNow))
	reloaded, err := repo.FindByID(conference.ID)
	require.NoError(t, err)
	require.True(t, reloaded.IsRejected())

	require.NoError(t, repo.Restore(conference.ID))
	reloaded, err = repo.FindByID(conference.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsRejected())
}

func TestConferenceRepository_LoadOpenIssuesCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)
	issueRepo := NewIssueRepository(db)

	conference := approvedConference("Flagged")
	require.NoError(t, repo.Create(&conference))

	require.NoError(t, repo.LoadOpenIssuesCount(&conference))
	require.Equal(t, int64(0), conference.OpenIssuesCount)

	issue := models.ConferenceIssue{
		ConferenceID: conference.ID,
		UserID:       7,
		Reason:       "spam",
	}
	require.NoError(t, issueRepo.Create(&issue))

	// The count is stale until explicitly reloaded.
	require.Equal(t, int64(0), conference.OpenIssuesCount)

	require.NoError(t, repo.LoadOpenIssuesCount(&conference))
	require.Equal(t, int64(1), conference.OpenIssuesCount)

	require.NoError(t, issueRepo.Close(&issue, 1, "resolved", testNow))
	require.NoError(t, repo.LoadOpenIssuesCount(&conference))
	require.Equal(t, int64(0), conference.OpenIssuesCount)
}

func TestConferenceRepository_EngagementFlips(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	conference := approvedConference("Engaged")
	require.NoError(t, repo.Create(&conference))

	favorited, err := repo.IsFavoritedBy(conference.ID, 7)
	require.NoError(t, err)
	require.False(t, favorited)

	require.NoError(t, repo.AddFavorite(conference.ID, 7))
	favorited, err = repo.IsFavoritedBy(conference.ID, 7)
	require.NoError(t, err)
	require.True(t, favorited)

	require.NoError(t, repo.RemoveFavorite(conference.ID, 7))
	favorited, err = repo.IsFavoritedBy(conference.ID, 7)
	require.NoError(t, err)
	require.False(t, favorited)
}

func TestConferenceRepository_Delete_RemovesEngagements(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	conference := approvedConference("Doomed")
	require.NoError(t, repo.Create(&conference))
	require.NoError(t, repo.AddFavorite(conference.ID, 7))
	require.NoError(t, repo.AddDismissal(conference.ID, 8))

	require.NoError(t, repo.Delete(conference.ID))

	_, err := repo.FindByID(conference.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var favorites int64
	require.NoError(t, db.Model(&models.ConferenceFavorite{}).
		Where("conference_id = ?", conference.ID).Count(&favorites).Error)
	require.Zero(t, favorites)
}

func TestConferenceRepository_ListUnsharedBy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	unshared := approvedConference("Unshared")
	unshared.AuthorID = 7
	require.NoError(t, repo.Create(&unshared))

	shared := approvedConference("Shared")
	shared.AuthorID = 7
	shared.SharedAt = &testNow
	require.NoError(t, repo.Create(&shared))

	otherAuthor := approvedConference("Someone Else's")
	otherAuthor.AuthorID = 8
	require.NoError(t, repo.Create(&otherAuthor))

	conferences, err := repo.ListUnsharedBy(7)
	require.NoError(t, err)
	require.Equal(t, []string{"Unshared"}, titles(conferences))
}

func TestConferenceRepository_ListFeatured(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	featured := approvedConference("Featured")
	featured.Featured = true
	require.NoError(t, repo.Create(&featured))

	plain := approvedConference("Plain")
	require.NoError(t, repo.Create(&plain))

	pendingFeatured := approvedConference("Pending Featured")
	pendingFeatured.Featured = true
	pendingFeatured.ApprovedAt = nil
	require.NoError(t, repo.Create(&pendingFeatured))

	conferences, err := repo.ListFeatured()
	require.NoError(t, err)
	require.Equal(t, []string{"Featured"}, titles(conferences))
}

func TestConferenceRepository_ListPendingApproval(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	pending := approvedConference("Pending")
	pending.ApprovedAt = nil
	require.NoError(t, repo.Create(&pending))

	approved := approvedConference("Approved")
	require.NoError(t, repo.Create(&approved))

	rejected := approvedConference("Pending Rejected")
	rejected.ApprovedAt = nil
	rejected.RejectedAt = &testNow
	require.NoError(t, repo.Create(&rejected))

	conferences, err := repo.ListPendingApproval()
	require.NoError(t, err)
	require.Equal(t, []string{"Pending"}, titles(conferences))
}

func TestDateDuring_RejectsUnknownColumn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConferenceRepository(db)

	conference := approvedConference("Any")
	require.NoError(t, repo.Create(&conference))

	var conferences []models.Conference
	err := db.Model(&models.Conference{}).
		Scopes(DateDuring(2023, time.May, "title; DROP TABLE conferences")).
		Find(&conferences).Error
	require.NoError(t, err)
	require.Empty(t, conferences)
}
