// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type Blah interface {
	GetTypeID() uint8
	Bark() string
}

type Blah1 struct{}

func (*Blah1) Bark() string     { return "blah1" }
func (*Blah1) GetTypeID() uint8 { return 0 }

type Blah2 struct{}

func (*Blah2) Bark() string     { return "blah2" }
func (*Blah2) GetTypeID() uint8 { return 1 }

type Blah3 struct{}

func (*Blah3) Bark() string     { return "blah3" }
func (*Blah3) GetTypeID() uint8 { return 0 }

func TestTypeParser(t *testing.T) {
	tp := NewTypeParser[Blah]()

	t.Run("empty parser", func(t *testing.T) {
		require := require.New(t)
		f, ok := tp.LookupIndex(0)
		require.Nil(f)
		require.False(ok)
		require.Equal("unknown", tp.Name(0))
	})

	t.Run("populated parser", func(t *testing.T) {
		require := require.New(t)

		require.NoError(tp.Register((*Blah1)(nil), func(*Packer) (Blah, error) { return &Blah1{}, nil }))
		require.NoError(tp.Register((*Blah2)(nil), func(*Packer) (Blah, error) { return &Blah2{}, nil }))

		f, ok := tp.LookupIndex(1)
		require.True(ok)
		res, err := f(nil)
		require.NoError(err)
		require.Equal("blah2", res.Bark())
		require.Equal("Blah1", tp.Name(0))
		require.Equal("Blah2", tp.Name(1))
	})

	t.Run("duplicate item", func(t *testing.T) {
		require := require.New(t)

		err := tp.Register((*Blah1)(nil), nil)
		require.ErrorIs(err, ErrDuplicateItem)
	})

	t.Run("duplicate type id", func(t *testing.T) {
		require := require.New(t)

		err := tp.Register((*Blah3)(nil), nil)
		require.ErrorIs(err, ErrDuplicateItem)
	})
}
