// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/numbervm/auth"
	"github.com/ava-labs/numbervm/config"
	"github.com/ava-labs/numbervm/vm"
)

func run(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestKeyCommands(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "key.pk")
	require.NoError(run("key", "generate", "--key", path))
	require.ErrorIs(run("key", "generate", "--key", path), ErrKeyExists)
	require.NoError(run("key", "show", "--key", path))

	_, err := auth.ReadPrivateKey(auth.ED25519Key, path)
	require.NoError(err)
}

func TestNumberCommands(t *testing.T) {
	require := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(nil)
	require.NoError(err)
	cfg.HTTPAddress = "127.0.0.1:0"
	v, err := vm.New(ctx, cfg, logging.NoLog{})
	require.NoError(err)
	done := make(chan error, 1)
	go func() {
		done <- v.Run(ctx)
	}()
	defer func() {
		cancel()
		require.NoError(<-done)
		require.NoError(v.Close())
	}()

	path := filepath.Join(t.TempDir(), "key.pk")
	require.NoError(run("key", "generate", "--key", path))
	pk, err := auth.ReadPrivateKey(auth.ED25519Key, path)
	require.NoError(err)

	endpoint := "http://" + v.Addr().String()
	require.NoError(run("number", "set", "5", "--key", path, "--endpoint", endpoint))
	require.NoError(run("number", "increase", "3", "--key", path, "--endpoint", endpoint))
	require.NoError(run("number", "decrease", "1", "--key", path, "--endpoint", endpoint))

	n, err := v.GetNumber(ctx, pk.Address)
	require.NoError(err)
	require.Equal(uint32(7), n)

	require.NoError(run("number", "get", "--key", path, "--endpoint", endpoint))
	require.NoError(run("number", "remove", "--key", path, "--endpoint", endpoint))

	n, err = v.GetNumber(ctx, pk.Address)
	require.NoError(err)
	require.Zero(n)
}
