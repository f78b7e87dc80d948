// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/numbervm/actions"
	"github.com/ava-labs/numbervm/api/jsonrpc"
	"github.com/ava-labs/numbervm/auth"
	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/utils"
)

var numberCmd = &cobra.Command{
	Use:   "number",
	Short: "Store and read numbers",
}

var numberSetCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Store a number for your account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := numberArg("value", args)
		if err != nil {
			return err
		}
		return submit(cmd, &actions.SetNumber{Value: value})
	},
}

var numberRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the number stored for your account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return submit(cmd, &actions.RemoveNumber{})
	},
}

var numberIncreaseCmd = &cobra.Command{
	Use:   "increase [amount]",
	Short: "Add to the number stored for your account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := numberArg("amount", args)
		if err != nil {
			return err
		}
		return submit(cmd, &actions.IncreaseNumber{Amount: amount})
	},
}

var numberDecreaseCmd = &cobra.Command{
	Use:   "decrease [amount]",
	Short: "Subtract from the number stored for your account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := numberArg("amount", args)
		if err != nil {
			return err
		}
		return submit(cmd, &actions.DecreaseNumber{Amount: amount})
	},
}

var numberGetCmd = &cobra.Command{
	Use:   "get [address]",
	Short: "Read the number stored for an account (yours by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var addr codec.Address
		if len(args) > 0 {
			parsed, err := codec.ParseAddressBech32(consts.HRP, args[0])
			if err != nil {
				return err
			}
			addr = parsed
		} else {
			pk, err := readKey(cmd)
			if err != nil {
				return err
			}
			addr = pk.Address
		}
		cli, err := newClient(cmd)
		if err != nil {
			return err
		}
		n, err := cli.Number(cmd.Context(), addr)
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}%s:{{/}} %d\n", codec.MustAddressBech32(consts.HRP, addr), n)
		return nil
	},
}

func newClient(cmd *cobra.Command) (*jsonrpc.JSONRPCClient, error) {
	endpoint, err := cmd.Flags().GetString("endpoint")
	if err != nil {
		return nil, err
	}
	return jsonrpc.NewJSONRPCClient(endpoint), nil
}

func newParser() (*chain.Parser, error) {
	parser := chain.NewParser()
	if err := actions.Register(parser); err != nil {
		return nil, err
	}
	if err := auth.Register(parser); err != nil {
		return nil, err
	}
	return parser, nil
}

// submit signs [action] with the configured key, sends it and prints the
// resulting number.
func submit(cmd *cobra.Command, action chain.Action) error {
	ctx := cmd.Context()

	pk, err := readKey(cmd)
	if err != nil {
		return err
	}
	factory, err := auth.GetFactory(pk)
	if err != nil {
		return err
	}
	parser, err := newParser()
	if err != nil {
		return err
	}
	cli, err := newClient(cmd)
	if err != nil {
		return err
	}

	tx, err := cli.GenerateTransaction(ctx, parser, action, factory)
	if err != nil {
		return err
	}
	txID, err := cli.SubmitTx(ctx, tx.Bytes())
	if err != nil {
		return err
	}
	n, err := cli.Number(ctx, factory.Address())
	if err != nil {
		return err
	}
	utils.Outf("{{green}}applied %s{{/}} {{cyan}}%s{{/}}\n", parser.Actions().Name(action.GetTypeID()), txID)
	utils.Outf("{{yellow}}number:{{/}} %d\n", n)
	return nil
}

func init() {
	numberCmd.AddCommand(
		numberSetCmd,
		numberRemoveCmd,
		numberIncreaseCmd,
		numberDecreaseCmd,
		numberGetCmd,
	)
	rootCmd.AddCommand(numberCmd)
}
