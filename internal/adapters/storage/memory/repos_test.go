package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dino-park/internal/adapters/storage/storagetest"
	"dino-park/internal/domain/park"
)

func TestDinoRepo_Contract(t *testing.T) {
	storagetest.RunDinoRepository(t, func(t *testing.T) park.DinoRepository { return NewDinoRepo() })
}

func TestGridRepo_Contract(t *testing.T) {
	storagetest.RunGridRepository(t, func(t *testing.T) park.GridRepository { return NewGridRepo() })
}

func TestDinoRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewDinoRepo()

	loc := "A1"
	require.NoError(t, r.Insert(ctx, park.Dino{ID: 1, Location: &loc}))
	loc = "Z16"

	got, err := r.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got.Location)
	assert.Equal(t, "A1", *got.Location)

	*got.Location = "B2"
	again, err := r.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "A1", *again.Location)
}
