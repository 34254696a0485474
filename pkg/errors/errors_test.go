package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestFromStorePassesThroughStoreMessage(t *testing.T) {
	pqErr := &pq.Error{Code: "23503", Message: `insert or update on table "grades" violates foreign key constraint "grades_evaluation_id_fkey"`}

	appErr := FromStore(fmt.Errorf("insert grade: %w", pqErr), "failed to record grade")

	assert.Equal(t, ErrStoreRejected.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, pqErr.Message, appErr.Message)
}

func TestFromStoreNoRows(t *testing.T) {
	appErr := FromStore(sql.ErrNoRows, "evaluation not found")
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "evaluation not found", appErr.Message)
}

func TestFromStoreKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrConflict, "grade already recorded")
	assert.Same(t, typed, FromStore(typed, "ignored"))
}

func TestClonedErrorsMatchTemplate(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Clone(ErrValidation, "score out of range"))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Nil(t, FromError(nil))
}
