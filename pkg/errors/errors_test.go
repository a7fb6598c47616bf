package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("person", "p1")
	assert.Equal(t, "person with ID p1 not found", err.Error())
	assert.True(t, Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsAlreadyExists(err))
}

func TestAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("partnership", "pt1")
	assert.Equal(t, "partnership with ID pt1 already exists", err.Error())
	assert.True(t, IsAlreadyExists(err))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("person", nil, "person must be non-nil with an id")
	assert.Contains(t, err.Error(), "validation failed for person")
	assert.True(t, IsValidationError(err))

	anon := NewValidationError("", nil, "bad input")
	assert.Equal(t, "validation failed: bad input", anon.Error())
}

func TestMergeErrorWrapping(t *testing.T) {
	cause := New("boom")
	err := NewMergeError("partnerships", "pt9", cause)
	assert.Contains(t, err.Error(), "merge failed during partnerships of pt9")
	assert.True(t, Is(err, cause))

	var merr *MergeError
	assert.True(t, As(err, &merr))
	assert.Equal(t, "partnerships", merr.Step)
}

func TestBackupErrorWrapsSentinel(t *testing.T) {
	err := NewBackupError("restore", "k1", ErrBackupMissing)
	assert.Contains(t, err.Error(), "backup restore failed for key k1")
	assert.True(t, Is(err, ErrBackupMissing))
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, WrapIO("read", "x", nil))
	assert.NoError(t, WrapParse("yaml", "x", nil))
	assert.NoError(t, WrapMerge("merge", "x", nil))

	cause := fmt.Errorf("underlying")
	err := WrapIO("write", "/tmp/tree.yaml", cause)
	assert.Contains(t, err.Error(), "IO error during write of /tmp/tree.yaml")
	assert.True(t, Is(err, cause))

	err = WrapParse("yaml", "tree.yaml", cause)
	assert.Contains(t, err.Error(), "parse error in yaml file tree.yaml")
	assert.True(t, Is(err, cause))
}
