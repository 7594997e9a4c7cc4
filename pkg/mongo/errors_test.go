package mongo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/apikit/core"
	"github.com/dmitrymomot/apikit/pkg/mongo"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	dup := driver.WriteException{WriteErrors: []driver.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}

	var ce *core.ConstraintError
	require.ErrorAs(t, mongo.ClassifyError(dup), &ce)
	assert.Equal(t, core.UniqueViolation, ce.Type)

	other := errors.New("boom")
	assert.Same(t, other, mongo.ClassifyError(other))
	assert.NoError(t, mongo.ClassifyError(nil))
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, mongo.IsNotFoundError(driver.ErrNoDocuments))
	assert.False(t, mongo.IsNotFoundError(errors.New("x")))
}

func TestNew_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(t.Context(), mongo.Config{})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}
