// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/numbervm/codec"
)

func TestEnsureSigned(t *testing.T) {
	addr := codec.CreateAddress(0, ids.GenerateTestID())
	tests := []struct {
		name    string
		origin  Origin
		want    codec.Address
		wantErr error
	}{
		{
			name:   "signed",
			origin: Signed(addr),
			want:   addr,
		},
		{
			name:    "unsigned",
			origin:  Unsigned(),
			wantErr: ErrUnauthorizedOrigin,
		},
		{
			name:    "root",
			origin:  Root(),
			wantErr: ErrUnauthorizedOrigin,
		},
		{
			name:    "nil",
			wantErr: ErrUnauthorizedOrigin,
		},
		{
			name:    "signed by empty address",
			origin:  Signed(codec.EmptyAddress),
			wantErr: ErrUnauthorizedOrigin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			actor, err := EnsureSigned(tt.origin)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.want, actor)
		})
	}
}
