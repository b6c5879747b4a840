package session

import (
	"errors"
	"io"

	"github.com/hupe1980/lfpreview/internal/mmap"
)

// Backing provides the bytes a session reads from.
type Backing interface {
	// Bytes returns the full content. The slice is valid until Close.
	Bytes() []byte
	Close() error
}

// Adviser is implemented by backings that accept kernel access hints.
type Adviser interface {
	AdviseRange(off, size int64, pattern mmap.AccessPattern) error
}

// MappingBacking serves a memory mapping, with an optional cleanup step
// (removing a spill file) run after unmapping.
type MappingBacking struct {
	m       *mmap.Mapping
	cleanup func() error
}

// NewMappingBacking wraps m. cleanup may be nil.
func NewMappingBacking(m *mmap.Mapping, cleanup func() error) *MappingBacking {
	return &MappingBacking{m: m, cleanup: cleanup}
}

func (b *MappingBacking) Bytes() []byte {
	return b.m.Bytes()
}

// AdviseRange hints the access pattern for [off, off+size).
func (b *MappingBacking) AdviseRange(off, size int64, pattern mmap.AccessPattern) error {
	r, err := b.m.Region(off, size)
	if err != nil {
		return err
	}
	return r.Advise(pattern)
}

func (b *MappingBacking) Close() error {
	err := b.m.Close()
	if b.cleanup != nil {
		err = errors.Join(err, b.cleanup())
	}
	return err
}

type bytesBacking struct {
	data   []byte
	closer io.Closer
}

// NewBytesBacking serves data that is already addressable, such as a
// mappable blob. closer releases it and may be nil.
func NewBytesBacking(data []byte, closer io.Closer) Backing {
	return &bytesBacking{data: data, closer: closer}
}

func (b *bytesBacking) Bytes() []byte { return b.data }

func (b *bytesBacking) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}
