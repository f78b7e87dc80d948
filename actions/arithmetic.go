// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/numbervm/chain"
)

// add and sub apply [policy] to uint32 arithmetic. Under [chain.Wrapping]
// results are taken modulo 2^32.
func add(policy chain.ArithmeticPolicy, n, delta uint32) (uint32, error) {
	switch policy {
	case chain.Wrapping:
		return n + delta, nil
	case chain.Checked:
		v, err := smath.Add(n, delta)
		if err != nil {
			return 0, fmt.Errorf("%w: %d + %d: %w", chain.ErrStorageOverflow, n, delta, err)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%w: %s", chain.ErrUnknownPolicy, policy)
	}
}

func sub(policy chain.ArithmeticPolicy, n, delta uint32) (uint32, error) {
	switch policy {
	case chain.Wrapping:
		return n - delta, nil
	case chain.Checked:
		v, err := smath.Sub(n, delta)
		if err != nil {
			return 0, fmt.Errorf("%w: %d - %d: %w", chain.ErrStorageOverflow, n, delta, err)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%w: %s", chain.ErrUnknownPolicy, policy)
	}
}
