// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/numbervm/consts"
)

const (
	defaultEndpoint = "http://127.0.0.1:9650"
	defaultKeyPath  = ".numbervm.pk"
)

var rootCmd = &cobra.Command{
	Use:   consts.Name,
	Short: "Per-account number store",
	Long:  `Run a numbervm node, or store and read numbers on one.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().String("endpoint", defaultEndpoint, "URI of the node to connect to")
	rootCmd.PersistentFlags().String("key", defaultKeyPath, "Path of the hex encoded ED25519 private key")
}

func main() {
	Execute()
}
