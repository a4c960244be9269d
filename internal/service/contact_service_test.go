package service

import (
	"context"
	"testing"
	"time"

	"folio/internal/config"
	"folio/internal/featureflags"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"
	"folio/internal/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactService(t *testing.T, mail *testutil.StubMailer, flags string) (*ContactService, repository.ContactRepository) {
	t.Helper()
	repo := repository.NewContactRepository(testutil.SQLiteDB(t))
	cfg := &config.Config{
		AdminEmail:     "owner@example.com",
		SiteName:       "Folio",
		ContactAddress: "1 Main St",
		ContactEmail:   "hello@example.com",
		SocialLinks:    "github=https://github.com/me",
	}
	return NewContactService(repo, mail, featureflags.NewManager(flags), cfg), repo
}

func validContact() ContactInput {
	return ContactInput{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "I'd like to work together.",
	}
}

func TestContactService_SubmitValidation(t *testing.T) {
	t.Parallel()
	mail := &testutil.StubMailer{}
	svc, repo := newContactService(t, mail, "contact_email=on")

	in := validContact()
	in.Subject = "   "
	in.Email = "nope"
	in.Phone = "012345678901234567890"

	_, err := svc.Submit(context.Background(), in)
	appErr := assertAppError(t, err, models.CodeValidation)
	assert.Contains(t, appErr.Fields, "subject")
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "phone")

	stored, err := repo.List(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Zero(t, mail.Attempts())
}

func TestContactService_SubmitNotifiesOnce(t *testing.T) {
	t.Parallel()
	mail := &testutil.StubMailer{}
	svc, _ := newContactService(t, mail, "contact_email=on")

	msg, err := svc.Submit(context.Background(), validContact())
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, models.ContactNew, msg.Status)

	require.NoError(t, svc.Wait(context.Background()))
	require.Equal(t, 1, mail.Attempts())
	sent := mail.Sent[0]
	assert.Equal(t, []string{"owner@example.com"}, sent.To)
	assert.Equal(t, "ada@example.com", sent.ReplyTo)
	assert.Contains(t, sent.Subject, "Hello")
	assert.Contains(t, sent.Body, "I'd like to work together.")
}

// Not parallel: reads a process-wide counter.
func TestContactService_MailFailureIsNotReturned(t *testing.T) {
	mail := &testutil.StubMailer{Err: testutil.ErrMailDown}
	svc, repo := newContactService(t, mail, "contact_email=on")
	failures := observability.NotificationFailures.WithLabelValues("email")
	before := promtest.ToFloat64(failures)

	msg, err := svc.Submit(context.Background(), validContact())
	require.NoError(t, err)
	require.NoError(t, svc.Wait(context.Background()))
	assert.Equal(t, 1, mail.Attempts())
	assert.Equal(t, before+1, promtest.ToFloat64(failures))

	stored, err := repo.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", stored.Subject)
}

func TestContactService_FlagOffSkipsMail(t *testing.T) {
	t.Parallel()
	mail := &testutil.StubMailer{}
	svc, _ := newContactService(t, mail, "contact_email=off")

	_, err := svc.Submit(context.Background(), validContact())
	require.NoError(t, err)
	require.NoError(t, svc.Wait(context.Background()))
	assert.Zero(t, mail.Attempts())
}

// Not parallel: reads a process-wide counter.
func TestContactService_SlowRelayDoesNotBlockSubmit(t *testing.T) {
	release := make(chan struct{})
	mail := &testutil.StubMailer{Block: release}
	svc, repo := newContactService(t, mail, "contact_email=on")
	ctx := context.Background()
	dropped := observability.NotificationFailures.WithLabelValues("email_dropped")
	before := promtest.ToFloat64(dropped)

	for i := 0; i < MaxPendingNotifications; i++ {
		_, err := svc.Submit(ctx, validContact())
		require.NoError(t, err)
	}
	_, err := svc.Submit(ctx, validContact())
	require.NoError(t, err, "a full queue still stores the message")
	assert.Equal(t, before+1, promtest.ToFloat64(dropped))

	stored, err := repo.List(ctx, "", 100, 0)
	require.NoError(t, err)
	assert.Len(t, stored, MaxPendingNotifications+1)

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Wait(waitCtx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, svc.Wait(ctx))
	assert.Equal(t, MaxPendingNotifications, mail.Attempts())
}

func TestContactService_Admin(t *testing.T) {
	t.Parallel()
	svc, _ := newContactService(t, &testutil.StubMailer{}, "")
	ctx := context.Background()

	msg, err := svc.Submit(ctx, validContact())
	require.NoError(t, err)

	err = svc.SetStatus(ctx, msg.ID, "bogus")
	assertValidationError(t, err)

	require.NoError(t, svc.SetStatus(ctx, msg.ID, "replied"))
	replied, err := svc.List(ctx, "replied", 10, 0)
	require.NoError(t, err)
	require.Len(t, replied, 1)

	fresh, err := svc.List(ctx, "new", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	_, err = svc.List(ctx, "bogus", 10, 0)
	assertValidationError(t, err)

	require.NoError(t, svc.Delete(ctx, msg.ID))
	_, err = svc.Get(ctx, msg.ID)
	assertAppError(t, err, models.CodeNotFound)
}

func TestContactService_Info(t *testing.T) {
	t.Parallel()
	svc, _ := newContactService(t, nil, "")

	info := svc.Info()
	assert.Equal(t, "1 Main St", info.Address)
	assert.Equal(t, "hello@example.com", info.Email)
	assert.Equal(t, map[string]string{"github": "https://github.com/me"}, info.Social)
}
