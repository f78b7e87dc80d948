// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/numbervm/auth"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/utils"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage keys",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new ED25519 key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("key")
		if err != nil {
			return err
		}
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%w: %s", ErrKeyExists, path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		pk, err := auth.GeneratePrivateKey(auth.ED25519Key)
		if err != nil {
			return err
		}
		if err := auth.SavePrivateKey(path, pk); err != nil {
			return err
		}
		utils.Outf("{{green}}created key:{{/}} %s\n", path)
		utils.Outf("{{yellow}}address:{{/}} %s\n", codec.MustAddressBech32(consts.HRP, pk.Address))
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the address of the key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		pk, err := readKey(cmd)
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}address:{{/}} %s\n", codec.MustAddressBech32(consts.HRP, pk.Address))
		return nil
	},
}

func readKey(cmd *cobra.Command) (*auth.PrivateKey, error) {
	path, err := cmd.Flags().GetString("key")
	if err != nil {
		return nil, err
	}
	return auth.ReadPrivateKey(auth.ED25519Key, path)
}

func init() {
	keyGenerateCmd.Flags().Bool("force", false, "Overwrite an existing key")
	keyCmd.AddCommand(keyGenerateCmd, keyShowCmd)
	rootCmd.AddCommand(keyCmd)
}
