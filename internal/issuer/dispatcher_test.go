package issuer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/engine/retry"
	storemocks "github.com/questforge/progression-engine/internal/store/mocks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubClient struct {
	fungibleErr    error
	collectibleErr error
	fungible       []string
	collectible    []string
}

func (c *stubClient) IssueFungible(_ context.Context, recipient string, _ int64, ref string) error {
	c.fungible = append(c.fungible, ref)
	return c.fungibleErr
}

func (c *stubClient) IssueCollectible(_ context.Context, recipient string, _ string, ref string) error {
	c.collectible = append(c.collectible, ref)
	return c.collectibleErr
}

func pendingGrant(kind model.RewardKind, attempts int) model.RewardGrant {
	return model.RewardGrant{
		ID:        uuid.New(),
		Recipient: "0xPlayer",
		Kind:      kind,
		Amount:    2000,
		SourceRef: "quest-ref",
		Attempts:  attempts,
		Status:    model.GrantPending,
	}
}

func TestDrainDispatchesBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := storemocks.NewMockOutboxRepository(ctrl)
	client := &stubClient{}

	fungible := pendingGrant(model.RewardFungible, 0)
	collectible := pendingGrant(model.RewardCollectible, 0)
	collectible.CollectibleRef = "badge:x"

	outbox.EXPECT().CountPending(gomock.Any()).Return(int64(2), nil)
	outbox.EXPECT().ClaimPending(gomock.Any(), 50).
		Return([]model.RewardGrant{fungible, collectible}, nil)
	outbox.EXPECT().MarkDispatched(gomock.Any(), fungible.ID, gomock.Any()).Return(nil)
	outbox.EXPECT().MarkDispatched(gomock.Any(), collectible.ID, gomock.Any()).Return(nil)

	d := New(outbox, client, newTestLogger())
	require.NoError(t, d.Drain(context.Background()))

	assert.Equal(t, []string{"quest-ref"}, client.fungible)
	assert.Equal(t, []string{"quest-ref"}, client.collectible)
}

func TestDrainTransientFailureStaysPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := storemocks.NewMockOutboxRepository(ctrl)
	client := &stubClient{fungibleErr: retry.Transient(errors.New("http status 503"))}

	grant := pendingGrant(model.RewardFungible, 0)

	outbox.EXPECT().CountPending(gomock.Any()).Return(int64(1), nil)
	outbox.EXPECT().ClaimPending(gomock.Any(), gomock.Any()).
		Return([]model.RewardGrant{grant}, nil)
	outbox.EXPECT().
		MarkFailed(gomock.Any(), grant.ID, gomock.Any(), false).
		Return(nil)

	d := New(outbox, client, newTestLogger())
	require.NoError(t, d.Drain(context.Background()))
}

func TestDrainTerminalFailureDeadLetters(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := storemocks.NewMockOutboxRepository(ctrl)
	client := &stubClient{fungibleErr: retry.Terminal(errors.New("http status 400: bad recipient"))}

	grant := pendingGrant(model.RewardFungible, 0)

	outbox.EXPECT().CountPending(gomock.Any()).Return(int64(1), nil)
	outbox.EXPECT().ClaimPending(gomock.Any(), gomock.Any()).
		Return([]model.RewardGrant{grant}, nil)
	outbox.EXPECT().
		MarkFailed(gomock.Any(), grant.ID, gomock.Any(), true).
		Return(nil)

	d := New(outbox, client, newTestLogger())
	require.NoError(t, d.Drain(context.Background()))
}

func TestDrainAttemptBudgetExhaustion(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := storemocks.NewMockOutboxRepository(ctrl)
	client := &stubClient{fungibleErr: retry.Transient(errors.New("http status 503"))}

	// One attempt short of the budget: this transient failure is the
	// last straw.
	grant := pendingGrant(model.RewardFungible, 2)

	outbox.EXPECT().CountPending(gomock.Any()).Return(int64(1), nil)
	outbox.EXPECT().ClaimPending(gomock.Any(), gomock.Any()).
		Return([]model.RewardGrant{grant}, nil)
	outbox.EXPECT().
		MarkFailed(gomock.Any(), grant.ID, gomock.Any(), true).
		Return(nil)

	d := New(outbox, client, newTestLogger(), WithMaxAttempts(3))
	require.NoError(t, d.Drain(context.Background()))
}

func TestDrainUnknownKindDeadLetters(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := storemocks.NewMockOutboxRepository(ctrl)
	client := &stubClient{}

	grant := pendingGrant("mystery", 0)

	outbox.EXPECT().CountPending(gomock.Any()).Return(int64(1), nil)
	outbox.EXPECT().ClaimPending(gomock.Any(), gomock.Any()).
		Return([]model.RewardGrant{grant}, nil)
	outbox.EXPECT().
		MarkFailed(gomock.Any(), grant.ID, gomock.Any(), true).
		Return(nil)

	d := New(outbox, client, newTestLogger())
	require.NoError(t, d.Drain(context.Background()))
	assert.Empty(t, client.fungible)
	assert.Empty(t, client.collectible)
}

func TestDrainBreakerOpensMidBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := storemocks.NewMockOutboxRepository(ctrl)
	client := &stubClient{fungibleErr: retry.Transient(errors.New("http status 503"))}

	grants := make([]model.RewardGrant, 5)
	for i := range grants {
		grants[i] = pendingGrant(model.RewardFungible, 0)
	}

	outbox.EXPECT().CountPending(gomock.Any()).Return(int64(5), nil)
	outbox.EXPECT().ClaimPending(gomock.Any(), gomock.Any()).Return(grants, nil)
	// Two failures trip the breaker; the remaining three grants are not
	// attempted this pass.
	outbox.EXPECT().
		MarkFailed(gomock.Any(), gomock.Any(), gomock.Any(), false).
		Return(nil).
		Times(2)

	d := New(outbox, client, newTestLogger(), WithBreakerThreshold(2))
	require.NoError(t, d.Drain(context.Background()))
	assert.Len(t, client.fungible, 2)
}

func TestDrainSkipsWhileBreakerOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := storemocks.NewMockOutboxRepository(ctrl)
	client := &stubClient{fungibleErr: retry.Transient(errors.New("http status 503"))}

	grant := pendingGrant(model.RewardFungible, 0)

	outbox.EXPECT().CountPending(gomock.Any()).Return(int64(1), nil).Times(2)
	outbox.EXPECT().ClaimPending(gomock.Any(), gomock.Any()).
		Return([]model.RewardGrant{grant}, nil).
		Times(1)
	outbox.EXPECT().
		MarkFailed(gomock.Any(), grant.ID, gomock.Any(), false).
		Return(nil)

	d := New(outbox, client, newTestLogger(), WithBreakerThreshold(1))

	// The first drain fails and opens the breaker; the second claims
	// nothing.
	require.NoError(t, d.Drain(context.Background()))
	require.NoError(t, d.Drain(context.Background()))
	assert.Len(t, client.fungible, 1)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := storemocks.NewMockOutboxRepository(ctrl)

	d := New(outbox, &stubClient{}, newTestLogger(), WithInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, d.Run(ctx), context.Canceled)
}
