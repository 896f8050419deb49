package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/program-catalog-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "programs_slug_key"}
	wrapped := fmt.Errorf("save program: %w", unique)
	other := &pq.Error{Code: "23503"}
	plain := errors.New("connection reset")

	assert.ErrorIs(t, TranslateError(unique), models.ErrConflict)
	assert.ErrorIs(t, TranslateError(wrapped), models.ErrConflict)
	assert.Contains(t, TranslateError(unique).Error(), "programs_slug_key")

	assert.Same(t, other, TranslateError(other))
	assert.Equal(t, plain, TranslateError(plain))
	assert.NoError(t, TranslateError(nil))
}
