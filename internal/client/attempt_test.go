package client_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-topup/internal/client"
	"github.com/jeffleon2/draftea-topup/internal/client/mocks"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memJournal struct {
	mu       sync.Mutex
	states   map[string]string
	trackErr error
}

func newMemJournal() *memJournal {
	return &memJournal{states: map[string]string{}}
}

func (j *memJournal) Track(topUp models.NewTopUp, state string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.trackErr != nil {
		return j.trackErr
	}
	j.states[topUp.IdempotencyKey()] = state
	return nil
}

func (j *memJournal) Forget(key string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.states, key)
	return nil
}

func (j *memJournal) state(key string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	s, ok := j.states[key]
	return s, ok
}

func checkedAttempt(t *testing.T, transport *mocks.MockTransport, c *client.Client) *client.Attempt {
	t.Helper()
	topUp := newTopUp(t)
	transport.EXPECT().
		CheckTopUp(mock.Anything, token, topUp).
		Return(models.OK(models.PendingTopUp{IdempotencyKey: "K1", CheckToken: "X", ValidUntil: time.Now().Add(time.Minute)})).
		Once()

	a := c.NewAttempt(topUp)
	_, err := a.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, client.StateChecked, a.State())
	return a
}

func TestAttempt_HappyPath(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	journal := newMemJournal()
	c := newClient(transport, client.WithJournal(journal))
	a := checkedAttempt(t, transport, c)

	transport.EXPECT().BookTopUp(mock.Anything, token, a.TopUp()).Return(models.OK(completed(a.TopUp()))).Once()

	resp, err := a.Book(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.KindOK, resp.Kind())
	assert.Equal(t, client.StateCompleted, a.State())
	got, ok := a.Completed()
	assert.True(t, ok)
	assert.Equal(t, "tx-1", got.TransactionID)
	_, tracked := journal.state("K1")
	assert.False(t, tracked)

	_, err = a.Book(context.Background())
	assert.ErrorIs(t, err, client.ErrAttemptFinished)
}

func TestAttempt_BookBeforeCheck(t *testing.T) {
	c := newClient(mocks.NewMockTransport(t))
	a := c.NewAttempt(newTopUp(t))

	_, err := a.Book(context.Background())

	assert.ErrorIs(t, err, client.ErrNotChecked)
	assert.Equal(t, client.StateCreated, a.State())
}

func TestAttempt_CheckRejectedFinishesAttempt(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	c := newClient(transport)
	topUp := newTopUp(t)
	a := c.NewAttempt(topUp)

	transport.EXPECT().
		CheckTopUp(mock.Anything, token, topUp).
		Return(models.Invalid[models.PendingTopUp](&models.ValidationError{Code: models.CodeMaxBalance})).
		Once()

	resp, err := a.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.KindValidationError, resp.Kind())
	assert.Equal(t, client.StateRejected, a.State())
	_, err = a.Book(context.Background())
	assert.ErrorIs(t, err, client.ErrAttemptFinished)
}

func TestAttempt_CheckNetworkFailureAllowsRecheck(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	c := newClient(transport)
	topUp := newTopUp(t)
	a := c.NewAttempt(topUp)

	transport.EXPECT().CheckTopUp(mock.Anything, token, topUp).Return(timeout[models.PendingTopUp]()).Times(3)

	resp, err := a.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.KindNetworkError, resp.Kind())
	assert.Equal(t, client.StateCreated, a.State())
}

func TestAttempt_ExpiredCheck(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	now := time.Now()
	c := newClient(transport, client.WithClock(func() time.Time { return now.Add(time.Hour) }))
	a := checkedAttempt(t, transport, c)

	_, err := a.Book(context.Background())

	assert.ErrorIs(t, err, client.ErrCheckExpired)
	assert.Equal(t, client.StateCreated, a.State())
}

func TestAttempt_LostResponseBecomesUnknownThenReplays(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	journal := newMemJournal()
	c := newClient(transport, client.WithJournal(journal), client.WithReplayAttempts(0))
	a := checkedAttempt(t, transport, c)

	transport.EXPECT().BookTopUp(mock.Anything, token, a.TopUp()).Return(timeout[models.CompletedTopUp]()).Once()

	resp, err := a.Book(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.CommitUnknown())
	assert.Equal(t, client.StateUnknown, a.State())
	state, _ := journal.state("K1")
	assert.Equal(t, string(client.StateUnknown), state)

	assert.ErrorIs(t, a.Abort(), client.ErrAbortForbidden)
	_, err = a.Check(context.Background())
	assert.ErrorIs(t, err, client.ErrOutcomeUnknown)

	transport.EXPECT().BookTopUp(mock.Anything, token, a.TopUp()).Return(models.OK(completed(a.TopUp()))).Once()

	resp, err = a.Book(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.KindOK, resp.Kind())
	assert.Equal(t, client.StateCompleted, a.State())
	_, tracked := journal.state("K1")
	assert.False(t, tracked)
}

func TestAttempt_UnknownSurvivesPreCommitReplayFailure(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	c := newClient(transport, client.WithBookRetry(fastRetry))
	a := c.ResumeAttempt(newTopUp(t))

	transport.EXPECT().BookTopUp(mock.Anything, token, a.TopUp()).Return(refused[models.CompletedTopUp]()).Times(3)

	resp, err := a.Book(context.Background())

	require.NoError(t, err)
	assert.False(t, resp.CommitUnknown())
	assert.Equal(t, client.StateUnknown, a.State())
}

func TestAttempt_UnauthorizedReplayAfterTimeoutKeepsUnknown(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	journal := newMemJournal()
	c := newClient(transport, client.WithJournal(journal))
	a := checkedAttempt(t, transport, c)

	transport.EXPECT().BookTopUp(mock.Anything, token, a.TopUp()).Return(timeout[models.CompletedTopUp]()).Once()
	transport.EXPECT().BookTopUp(mock.Anything, token, a.TopUp()).Return(models.Denied[models.CompletedTopUp]()).Once()

	resp, err := a.Book(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.CommitUnknown())
	assert.Equal(t, client.StateUnknown, a.State())
	state, tracked := journal.state("K1")
	require.True(t, tracked)
	assert.Equal(t, string(client.StateUnknown), state)
}

func TestAttempt_UnauthorizedWhileResumingUnknown(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	journal := newMemJournal()
	c := newClient(transport, client.WithJournal(journal))
	a := c.ResumeAttempt(newTopUp(t))

	transport.EXPECT().BookTopUp(mock.Anything, token, a.TopUp()).Return(models.Denied[models.CompletedTopUp]()).Once()

	resp, err := a.Book(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.KindUnauthorized, resp.Kind())
	assert.Equal(t, client.StateUnknown, a.State())
	state, tracked := journal.state("K1")
	require.True(t, tracked)
	assert.Equal(t, string(client.StateUnknown), state)
	assert.ErrorIs(t, a.Abort(), client.ErrAbortForbidden)
}

func TestAttempt_PreCommitFailureReturnsToChecked(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	c := newClient(transport)
	a := checkedAttempt(t, transport, c)

	transport.EXPECT().BookTopUp(mock.Anything, token, a.TopUp()).Return(refused[models.CompletedTopUp]()).Times(3)

	_, err := a.Book(context.Background())

	require.NoError(t, err)
	assert.Equal(t, client.StateChecked, a.State())
	assert.NoError(t, a.Abort())
	assert.Equal(t, client.StateAborted, a.State())
}

func TestAttempt_BookRejectedVoidsPending(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	c := newClient(transport)
	a := checkedAttempt(t, transport, c)

	transport.EXPECT().
		BookTopUp(mock.Anything, token, a.TopUp()).
		Return(models.Invalid[models.CompletedTopUp](&models.ValidationError{Code: models.CodeAccountBlocked})).
		Once()

	_, err := a.Book(context.Background())

	require.NoError(t, err)
	assert.Equal(t, client.StateRejected, a.State())
	_, ok := a.Pending()
	assert.False(t, ok)
}

func TestAttempt_JournalFailurePreventsBook(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	journal := newMemJournal()
	c := newClient(transport, client.WithJournal(journal))
	a := checkedAttempt(t, transport, c)
	journal.trackErr = errors.New("disk full")

	_, err := a.Book(context.Background())

	assert.EqualError(t, err, "disk full")
	assert.Equal(t, client.StateChecked, a.State())
	transport.AssertNotCalled(t, "BookTopUp", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttempt_AbortDuringCheckDiscardsResult(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	c := newClient(transport)
	topUp := newTopUp(t)
	a := c.NewAttempt(topUp)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	transport.EXPECT().
		CheckTopUp(mock.Anything, token, topUp).
		RunAndReturn(func(context.Context, string, models.NewTopUp) models.Response[models.PendingTopUp] {
			close(inFlight)
			<-release
			return models.OK(models.PendingTopUp{CheckToken: "X"})
		}).
		Once()

	done := make(chan error, 1)
	go func() {
		_, err := a.Check(context.Background())
		done <- err
	}()

	<-inFlight
	assert.Equal(t, client.StateChecking, a.State())
	_, err := a.Book(context.Background())
	assert.ErrorIs(t, err, client.ErrAttemptBusy)
	assert.NoError(t, a.Abort())
	close(release)

	assert.ErrorIs(t, <-done, client.ErrAttemptAborted)
	assert.Equal(t, client.StateAborted, a.State())
	_, ok := a.Pending()
	assert.False(t, ok)
	_, err = a.Book(context.Background())
	assert.ErrorIs(t, err, client.ErrAttemptAborted)
}
