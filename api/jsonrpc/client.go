// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/numbervm/api"
	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
)

// DefaultExpiry is how long a generated transaction stays valid.
const DefaultExpiry = 30 * time.Second

type JSONRPCClient struct {
	requester rpc.EndpointRequester

	chainID ids.ID
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		api.Name+".ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) ChainID(ctx context.Context) (ids.ID, error) {
	if cli.chainID != ids.Empty {
		return cli.chainID, nil
	}

	resp := new(NetworkReply)
	err := cli.requester.SendRequest(
		ctx,
		api.Name+".network",
		nil,
		resp,
	)
	if err != nil {
		return ids.Empty, err
	}
	cli.chainID = resp.ChainID
	return resp.ChainID, nil
}

func (cli *JSONRPCClient) Number(ctx context.Context, addr codec.Address) (uint32, error) {
	saddr, err := codec.AddressBech32(consts.HRP, addr)
	if err != nil {
		return 0, err
	}
	resp := new(NumberReply)
	err = cli.requester.SendRequest(
		ctx,
		api.Name+".number",
		&NumberArgs{Address: saddr},
		resp,
	)
	return resp.Number, err
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, d []byte) (ids.ID, error) {
	resp := new(SubmitTxReply)
	err := cli.requester.SendRequest(
		ctx,
		api.Name+".submitTx",
		&SubmitTxArgs{Tx: d},
		resp,
	)
	return resp.TxID, err
}

// GenerateTransaction signs [action] with [factory] for the chain the
// client is connected to.
func (cli *JSONRPCClient) GenerateTransaction(
	ctx context.Context,
	parser *chain.Parser,
	action chain.Action,
	factory chain.AuthFactory,
) (*chain.Transaction, error) {
	chainID, err := cli.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	base := &chain.Base{
		Timestamp: time.Now().Add(DefaultExpiry).UnixMilli(),
		ChainID:   chainID,
	}
	return chain.NewTx(base, action).Sign(factory, parser)
}
