// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "fmt"

// ArithmeticPolicy selects how increase and decrease treat results that
// do not fit in a uint32.
type ArithmeticPolicy uint8

const (
	// Wrapping uses modular uint32 arithmetic: decreasing 0 by 1 stores
	// 4294967295. Downstream consumers may depend on this, so it is the
	// default.
	Wrapping ArithmeticPolicy = iota
	// Checked fails the operation with [ErrStorageOverflow] instead.
	Checked
)

func (p ArithmeticPolicy) String() string {
	switch p {
	case Wrapping:
		return "wrapping"
	case Checked:
		return "checked"
	default:
		return fmt.Sprintf("ArithmeticPolicy(%d)", uint8(p))
	}
}

// ParseArithmeticPolicy parses the String form of a policy.
func ParseArithmeticPolicy(s string) (ArithmeticPolicy, error) {
	switch s {
	case "", "wrapping":
		return Wrapping, nil
	case "checked":
		return Checked, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func (p ArithmeticPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *ArithmeticPolicy) UnmarshalText(b []byte) error {
	parsed, err := ParseArithmeticPolicy(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
