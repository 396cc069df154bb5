package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/asof/internal/history"
)

// Coordinate resolution happens before the batch touches the database,
// so the abort paths are testable without one.

func TestBeginBatch_MissingProvenance(t *testing.T) {
	s := &Store{}

	_, err := s.BeginBatch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, history.IsMissingProvenance(err))
}

func TestBeginBatch_DomainOverflow(t *testing.T) {
	s := &Store{}

	_, err := s.BeginBatch(context.Background(), &history.Event{
		ID:       uuid.New(),
		BlockPtr: history.BlockPtr{Number: 4_294_967_295},
	})
	require.Error(t, err)
	assert.True(t, history.IsDomainOverflow(err))
	assert.Contains(t, err.Error(), "4294967295")
}
