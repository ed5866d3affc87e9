package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcadiz/sari-store/internal/domain/stock"
)

func TestPlanTransition_EnterDenied(t *testing.T) {
	for _, prev := range []Status{StatusPending, StatusConfirmed, StatusCompleted} {
		t.Run(string(prev), func(t *testing.T) {
			plan, err := PlanTransition(prev, StatusDenied, "payment unclear")
			require.NoError(t, err)

			change, ok := plan.Change.(SetDenied)
			require.True(t, ok, "expected SetDenied, got %T", plan.Change)
			assert.Equal(t, "payment unclear", change.Reason)
			assert.Equal(t, stock.Increment, plan.StockDelta)
		})
	}
}

func TestPlanTransition_EnterDeniedWithoutReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := PlanTransition(StatusPending, StatusDenied, reason)
		require.ErrorIs(t, err, ErrDenialReasonRequired)
	}
}

func TestPlanTransition_EnterDeniedTrimsReason(t *testing.T) {
	plan, err := PlanTransition(StatusConfirmed, StatusDenied, "  duplicate order  ")
	require.NoError(t, err)

	change := plan.Change.(SetDenied)
	assert.Equal(t, "duplicate order", change.Reason)
}

func TestPlanTransition_LeaveDenied(t *testing.T) {
	for _, next := range []Status{StatusPending, StatusConfirmed, StatusCompleted} {
		t.Run(string(next), func(t *testing.T) {
			plan, err := PlanTransition(StatusDenied, next, "")
			require.NoError(t, err)

			change, ok := plan.Change.(ClearDenial)
			require.True(t, ok, "expected ClearDenial, got %T", plan.Change)
			assert.Equal(t, next, change.To)
			assert.Equal(t, stock.Decrement, plan.StockDelta)
		})
	}
}

func TestPlanTransition_DeniedToDenied(t *testing.T) {
	// Re-selecting denied keeps the stored reason and must not hand back
	// another unit of stock.
	plan, err := PlanTransition(StatusDenied, StatusDenied, "")
	require.NoError(t, err)

	_, ok := plan.Change.(KeepDenied)
	require.True(t, ok, "expected KeepDenied, got %T", plan.Change)
	assert.Equal(t, stock.None, plan.StockDelta)
}

func TestPlanTransition_BetweenNonDenied(t *testing.T) {
	cases := []struct{ prev, next Status }{
		{StatusPending, StatusConfirmed},
		{StatusConfirmed, StatusCompleted},
		{StatusCompleted, StatusPending},
		{StatusConfirmed, StatusPending},
		{StatusPending, StatusPending},
	}
	for _, tc := range cases {
		plan, err := PlanTransition(tc.prev, tc.next, "")
		require.NoError(t, err)

		change, ok := plan.Change.(ClearDenial)
		require.True(t, ok, "expected ClearDenial, got %T", plan.Change)
		assert.Equal(t, tc.next, change.To)
		assert.Equal(t, stock.None, plan.StockDelta)
	}
}

func TestPlanTransition_ReasonIgnoredOutsideDenial(t *testing.T) {
	plan, err := PlanTransition(StatusPending, StatusConfirmed, "stray reason")
	require.NoError(t, err)

	change := plan.Change.(ClearDenial)
	assert.Equal(t, StatusConfirmed, change.To)
}

func TestPlanTransition_InvalidStatus(t *testing.T) {
	_, err := PlanTransition(StatusPending, Status("shipped"), "")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "completed", "denied"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}

	_, err := ParseStatus("Pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
