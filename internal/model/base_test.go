package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBaseModel_BeforeCreate_AssignsUUIDWhenNil(t *testing.T) {
	b := &BaseModel{}
	require := assert.New(t)
	require.Equal(uuid.Nil, b.ID)

	err := b.BeforeCreate(nil)
	require.NoError(err)
	require.NotEqual(uuid.Nil, b.ID)
}

func TestBaseModel_BeforeCreate_PreservesExistingID(t *testing.T) {
	id := uuid.New()
	b := &BaseModel{ID: id}

	err := b.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, id, b.ID)
}
