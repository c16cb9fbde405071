package blob

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	store := NewStore()
	out := &domain.ToolOutput{Data: []byte("%PDF-1.7"), SuggestedName: "Aadhaar_Card.pdf", Pages: 1}

	handle, err := store.Put(out)
	require.NoError(t, err)
	assert.NotEmpty(t, handle)

	got, err := store.Get(handle)
	require.NoError(t, err)
	assert.Equal(t, out, got)
}

func TestStore_Put_CopiesData(t *testing.T) {
	store := NewStore()
	data := []byte("abc")
	handle, err := store.Put(&domain.ToolOutput{Data: data})
	require.NoError(t, err)

	data[0] = 'x'
	got, err := store.Get(handle)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got.Data)

	got.Data[1] = 'y'
	again, _ := store.Get(handle)
	assert.Equal(t, []byte("abc"), again.Data)
}

func TestStore_Put_Nil(t *testing.T) {
	_, err := NewStore().Put(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Get_Unknown(t *testing.T) {
	_, err := NewStore().Get("missing")
	assert.ErrorIs(t, err, domain.ErrBlobReleased)
}

func TestStore_Release_Immediate(t *testing.T) {
	store := NewStore()
	handle, _ := store.Put(&domain.ToolOutput{Data: []byte("x")})

	require.NoError(t, store.Release(handle, 0))

	_, err := store.Get(handle)
	assert.ErrorIs(t, err, domain.ErrBlobReleased)
	assert.Equal(t, 0, store.Len())
}

func TestStore_Release_AfterGrace(t *testing.T) {
	store := NewStore()
	handle, _ := store.Put(&domain.ToolOutput{Data: []byte("x")})

	require.NoError(t, store.Release(handle, 20*time.Millisecond))

	_, err := store.Get(handle)
	require.NoError(t, err, "still readable during grace")

	assert.Eventually(t, func() bool {
		_, err := store.Get(handle)
		return err != nil
	}, time.Second, 5*time.Millisecond)
}

func TestStore_Release_Unknown(t *testing.T) {
	err := NewStore().Release("missing", time.Second)
	assert.ErrorIs(t, err, domain.ErrBlobReleased)
}

func TestStore_Close(t *testing.T) {
	store := NewStore()
	handle, _ := store.Put(&domain.ToolOutput{Data: []byte("x")})
	_ = store.Release(handle, time.Hour)
	_, _ = store.Put(&domain.ToolOutput{Data: []byte("y")})

	require.NoError(t, store.Close())
	assert.Equal(t, 0, store.Len())
}
