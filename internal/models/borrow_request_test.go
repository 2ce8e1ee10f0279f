package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// Legal edges
	assert.True(t, CanTransition(BorrowStatusPending, BorrowStatusApproved))
	assert.True(t, CanTransition(BorrowStatusPending, BorrowStatusRejected))
	assert.True(t, CanTransition(BorrowStatusPending, BorrowStatusCancelled))
	assert.True(t, CanTransition(BorrowStatusApproved, BorrowStatusCompleted))
	assert.True(t, CanTransition(BorrowStatusApproved, BorrowStatusCancelled))

	// Terminal states stay terminal
	assert.False(t, CanTransition(BorrowStatusRejected, BorrowStatusApproved))
	assert.False(t, CanTransition(BorrowStatusCancelled, BorrowStatusPending))
	assert.False(t, CanTransition(BorrowStatusCompleted, BorrowStatusApproved))

	// No skipping ahead
	assert.False(t, CanTransition(BorrowStatusPending, BorrowStatusCompleted))
	assert.False(t, CanTransition(BorrowStatusApproved, BorrowStatusRejected))
}

func TestBorrowRequestOverlaps(t *testing.T) {
	day := 24 * time.Hour
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	request := BorrowRequest{StartDate: base.Add(2 * day), EndDate: base.Add(5 * day)}

	// Fully inside
	assert.True(t, request.Overlaps(base.Add(3*day), base.Add(4*day)))
	// Partial overlap at each end
	assert.True(t, request.Overlaps(base, base.Add(2*day)))
	assert.True(t, request.Overlaps(base.Add(5*day), base.Add(7*day)))
	// Enclosing
	assert.True(t, request.Overlaps(base, base.Add(10*day)))
	// Disjoint
	assert.False(t, request.Overlaps(base, base.Add(1*day)))
	assert.False(t, request.Overlaps(base.Add(6*day), base.Add(8*day)))
}
