// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Name is used to register the JSON-RPC service and to label metrics.
	Name = "numbervm"

	// HRP is the human readable part of bech32 account addresses.
	HRP = "number"

	ByteLen          = 1
	BoolLen          = 1
	IDLen            = 32
	IntLen           = 4
	Uint16Len        = 2
	Uint32Len        = 4
	Uint64Len        = 8
	MaxUint8         = ^uint8(0)
	MaxUint16        = ^uint16(0)
	MaxUint32        = ^uint32(0)
	MaxUint          = ^uint(0)
	MaxInt           = int(MaxUint >> 1)
	NetworkSizeLimit = 2_044_723 // 1.95 MiB
)

// Note: Registry will error during initialization if a duplicate ID is assigned. We explicitly assign IDs to avoid accidental remapping.
const (
	// Action TypeIDs
	SetNumberID      uint8 = 0
	RemoveNumberID   uint8 = 1
	IncreaseNumberID uint8 = 2
	DecreaseNumberID uint8 = 3

	// Event TypeIDs
	NumberStoredID  uint8 = 0
	NumberChangedID uint8 = 1
	NumberFreeID    uint8 = 2

	// Auth TypeIDs
	ED25519ID uint8 = 0
)
