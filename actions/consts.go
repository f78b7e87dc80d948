// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "github.com/ava-labs/numbervm/consts"

const (
	SetNumberSize      = consts.Uint32Len
	RemoveNumberSize   = 0
	IncreaseNumberSize = consts.Uint32Len
	DecreaseNumberSize = consts.Uint32Len
)
