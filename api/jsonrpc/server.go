// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/numbervm/api"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/server"
	"github.com/ava-labs/numbervm/storage"

	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	Endpoint = "/rpc"
)

var _ api.HandlerFactory[api.VM] = (*JSONRPCServerFactory)(nil)

type JSONRPCServerFactory struct{}

func (JSONRPCServerFactory) New(vm api.VM) (api.Handler, error) {
	handler, err := server.NewHandler(NewJSONRPCServer(vm), api.Name)
	if err != nil {
		return api.Handler{}, err
	}

	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

type JSONRPCServer struct {
	vm api.VM
}

func NewJSONRPCServer(vm api.VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

type NetworkReply struct {
	ChainID ids.ID `json:"chainId"`
}

func (j *JSONRPCServer) Network(_ *http.Request, _ *struct{}, reply *NetworkReply) (err error) {
	reply.ChainID = j.vm.ChainID()
	return nil
}

type NumberArgs struct {
	Address string `json:"address"`
}

type NumberReply struct {
	Number uint32 `json:"number"`
}

// Number returns the number held by an account. Accounts that never stored
// a number hold 0.
func (j *JSONRPCServer) Number(req *http.Request, args *NumberArgs, reply *NumberReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Number", oteltrace.WithAttributes(
		attribute.String("address", args.Address),
	))
	defer span.End()

	addr, err := codec.ParseAddressBech32(consts.HRP, args.Address)
	if err != nil {
		return err
	}
	n, err := storage.GetNumberFromState(ctx, j.vm.ReadState, addr)
	if err != nil {
		return err
	}
	reply.Number = n
	return nil
}

type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

type SubmitTxReply struct {
	TxID ids.ID `json:"txId"`
}

func (j *JSONRPCServer) SubmitTx(
	req *http.Request,
	args *SubmitTxArgs,
	reply *SubmitTxReply,
) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	txID, err := j.vm.Submit(ctx, args.Tx)
	if err != nil {
		j.vm.Logger().Debug("rejected transaction",
			zap.Int("size", len(args.Tx)),
			zap.Error(err),
		)
		return err
	}
	reply.TxID = txID
	return nil
}
