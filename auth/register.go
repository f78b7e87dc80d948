// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import "github.com/ava-labs/numbervm/chain"

// Register adds every auth to [p].
func Register(p *chain.Parser) error {
	return p.Auths().Register(&ED25519{}, UnmarshalED25519)
}
