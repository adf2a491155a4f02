package refunds

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourly/internal/policies"
)

func pendingRequest() *RefundRequest {
	return &RefundRequest{
		ID:              uuid.New(),
		BookingID:       uuid.New(),
		CustomerID:      uuid.New(),
		RefundType:      policies.RefundTypeUserCancellation,
		OriginalAmount:  money(1000000),
		RequestedAmount: money(850000),
		ProcessingFee:   money(50000),
		Status:          StatusPending,
		RequestedAt:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRefundRequest_ApproveSetsProcessedFields(t *testing.T) {
	req := pendingRequest()
	adminID := uuid.New()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	err := req.Approve(money(800000), adminID, "partial approval", now)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, req.Status)
	require.NotNil(t, req.ApprovedAmount)
	assert.True(t, money(800000).Equal(*req.ApprovedAmount))
	require.NotNil(t, req.ProcessedAt)
	assert.Equal(t, now, *req.ProcessedAt)
	require.NotNil(t, req.ProcessedByAdminID)
	assert.Equal(t, adminID, *req.ProcessedByAdminID)
	assert.Nil(t, req.CompletedAt)
}

func TestRefundRequest_ApproveRejectsExcessAmount(t *testing.T) {
	req := pendingRequest()

	err := req.Approve(money(900000), uuid.New(), "", time.Now())
	assert.ErrorIs(t, err, ErrAmountExceedsRequested)
	assert.Equal(t, StatusPending, req.Status)
}

func TestRefundRequest_ApproveRejectsNegativeAmount(t *testing.T) {
	req := pendingRequest()

	err := req.Approve(money(-1), uuid.New(), "", time.Now())
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestRefundRequest_ApproveAllowsZero(t *testing.T) {
	req := pendingRequest()
	require.NoError(t, req.Approve(decimal.Zero, uuid.New(), "goodwill denied", time.Now()))
	assert.True(t, req.NetRefundAmount().IsZero())
}

func TestRefundRequest_ApproveOnlyFromPending(t *testing.T) {
	req := pendingRequest()
	require.NoError(t, req.Approve(money(800000), uuid.New(), "", time.Now()))

	err := req.Approve(money(800000), uuid.New(), "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRefundRequest_RejectRequiresNotes(t *testing.T) {
	req := pendingRequest()

	err := req.Reject(uuid.New(), "", time.Now())
	assert.ErrorIs(t, err, ErrAdminNotesRequired)
	assert.Equal(t, StatusPending, req.Status)

	require.NoError(t, req.Reject(uuid.New(), "documents missing", time.Now()))
	assert.Equal(t, StatusRejected, req.Status)
	assert.Nil(t, req.ApprovedAmount)
}

func TestRefundRequest_CancelOnlyFromPending(t *testing.T) {
	req := pendingRequest()
	require.NoError(t, req.Cancel(time.Now()))
	assert.Equal(t, StatusCancelled, req.Status)

	approved := pendingRequest()
	require.NoError(t, approved.Approve(money(800000), uuid.New(), "", time.Now()))
	assert.ErrorIs(t, approved.Cancel(time.Now()), ErrInvalidTransition)
}

func TestRefundRequest_CompleteLifecycle(t *testing.T) {
	req := pendingRequest()
	adminID := uuid.New()
	approvedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	completedAt := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, req.Approve(money(800000), adminID, "", approvedAt))

	already, err := req.Complete("TXN-001", completedAt)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, StatusCompleted, req.Status)
	require.NotNil(t, req.CompletedAt)
	assert.Equal(t, completedAt, *req.CompletedAt)
	assert.Equal(t, "TXN-001", req.TransactionReference)
}

func TestRefundRequest_CompleteIsIdempotent(t *testing.T) {
	req := pendingRequest()
	require.NoError(t, req.Approve(money(800000), uuid.New(), "", time.Now()))

	_, err := req.Complete("TXN-001", time.Now())
	require.NoError(t, err)
	firstCompletedAt := *req.CompletedAt

	// Second completion reports already-done and changes nothing.
	already, err := req.Complete("TXN-002", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, "TXN-001", req.TransactionReference)
	assert.Equal(t, firstCompletedAt, *req.CompletedAt)
}

func TestRefundRequest_CompleteRequiresApprovalAndReference(t *testing.T) {
	req := pendingRequest()

	_, err := req.Complete("TXN-001", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, req.Approve(money(800000), uuid.New(), "", time.Now()))
	_, err = req.Complete("", time.Now())
	assert.ErrorIs(t, err, ErrTransactionRefRequired)
}

func TestRefundRequest_NetRefundAmount(t *testing.T) {
	req := pendingRequest()

	// Nothing approved yet.
	assert.True(t, req.NetRefundAmount().IsZero())

	require.NoError(t, req.Approve(money(800000), uuid.New(), "", time.Now()))
	assert.True(t, money(750000).Equal(req.NetRefundAmount()), "got %s", req.NetRefundAmount())
}

func TestRefundRequest_NetRefundAmountClampsAtZero(t *testing.T) {
	req := pendingRequest()
	small := money(30000)
	req.ApprovedAmount = &small // below the 50,000 fee

	assert.True(t, req.NetRefundAmount().IsZero())
}
