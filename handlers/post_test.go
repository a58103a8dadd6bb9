package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleLikeFlipsMembership(t *testing.T) {
	actor := primitive.NewObjectID()
	other := primitive.NewObjectID()
	likes := []primitive.ObjectID{other}

	likes, liked := toggleLike(likes, actor)
	assert.True(t, liked)
	assert.Len(t, likes, 2)

	likes, liked = toggleLike(likes, actor)
	assert.False(t, liked)
	require.Len(t, likes, 1)
	assert.Equal(t, other, likes[0], "toggling twice restores the original set")
}

func TestToggleLikeEmptySet(t *testing.T) {
	actor := primitive.NewObjectID()

	likes, liked := toggleLike(nil, actor)
	assert.True(t, liked)
	require.Len(t, likes, 1)
	assert.Equal(t, actor, likes[0])

	likes, liked = toggleLike(likes, actor)
	assert.False(t, liked)
	assert.Empty(t, likes)
}
