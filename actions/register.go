// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/numbervm/chain"
)

// Register adds every action and event to [p].
func Register(p *chain.Parser) error {
	errs := &wrappers.Errs{}
	errs.Add(
		p.Actions().Register(&SetNumber{}, UnmarshalSetNumber),
		p.Actions().Register(&RemoveNumber{}, UnmarshalRemoveNumber),
		p.Actions().Register(&IncreaseNumber{}, UnmarshalIncreaseNumber),
		p.Actions().Register(&DecreaseNumber{}, UnmarshalDecreaseNumber),

		p.Events().Register(&NumberStored{}, UnmarshalNumberStored),
		p.Events().Register(&NumberChanged{}, UnmarshalNumberChanged),
		p.Events().Register(&NumberFree{}, UnmarshalNumberFree),
	)
	return errs.Err
}
