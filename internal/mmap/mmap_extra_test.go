package mmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmap_Region_And_Advise(t *testing.T) {
	path := writeTemp(t, make([]byte, 1024))

	m, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, m.Advise(AccessRandom))

	r, err := m.Region(100, 200)
	require.NoError(t, err)
	assert.Len(t, r.Bytes(), 200)
	assert.Equal(t, m.Bytes()[100:300], r.Bytes())
	require.NoError(t, r.Advise(AccessSequential))

	empty, err := m.Region(1024, 0)
	require.NoError(t, err)
	assert.Nil(t, empty.Bytes())

	_, err = m.Region(-1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = m.Region(1000, 100)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, m.Close())

	assert.Nil(t, r.Bytes())
	assert.ErrorIs(t, r.Advise(AccessDefault), ErrClosed)
}

func TestMmap_AfterClose(t *testing.T) {
	path := writeTemp(t, []byte("data"))

	m, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")

	assert.Nil(t, m.Bytes())
	assert.Equal(t, int64(4), m.Size())
	assert.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
	_, err = m.Region(0, 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestAccessPattern_String(t *testing.T) {
	assert.Equal(t, "sequential", AccessSequential.String())
	assert.Equal(t, "default", AccessPattern(99).String())
}
