// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/manifoldco/promptui"

	"github.com/ava-labs/numbervm/utils"
)

// numberArg parses the first argument, prompting for it when absent.
func numberArg(label string, args []string) (uint32, error) {
	if len(args) > 0 {
		return utils.ParseNumber(args[0])
	}
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := utils.ParseNumber(input)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return utils.ParseNumber(raw)
}
