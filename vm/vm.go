// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/numbervm/actions"
	"github.com/ava-labs/numbervm/api"
	"github.com/ava-labs/numbervm/api/jsonrpc"
	"github.com/ava-labs/numbervm/api/ws"
	"github.com/ava-labs/numbervm/auth"
	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/codec"
	"github.com/ava-labs/numbervm/config"
	"github.com/ava-labs/numbervm/event"
	"github.com/ava-labs/numbervm/pebble"
	"github.com/ava-labs/numbervm/server"
	"github.com/ava-labs/numbervm/state"
	"github.com/ava-labs/numbervm/storage"

	vmtrace "github.com/ava-labs/numbervm/trace"
)

const MetricsEndpoint = "/metrics"

var _ api.VM = (*VM)(nil)

// Database is the substrate numbers are persisted in.
type Database interface {
	state.Database
	io.Closer
}

// VM owns the account store and every surface that reaches it.
type VM struct {
	config *config.Config
	log    logging.Logger
	tracer trace.Tracer

	registry *prometheus.Registry
	gatherer prometheus.Gatherers

	db        Database
	processor *chain.Processor
	wsServer  *ws.WebSocketServer
	server    server.Server
}

// New opens the database and builds the processor and HTTP server. The
// server is not started until [Run].
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*VM, error) {
	vm := &VM{
		config:   cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
	}
	vm.gatherer = prometheus.Gatherers{vm.registry}

	tracer, err := vmtrace.New(&cfg.Trace)
	if err != nil {
		return nil, err
	}
	vm.tracer = tracer
	_, span := tracer.Start(ctx, "VM.New")
	defer span.End()

	if err := vm.openDatabase(); err != nil {
		return nil, errors.Join(err, tracer.Close())
	}

	parser := chain.NewParser()
	if err := actions.Register(parser); err != nil {
		return nil, errors.Join(err, vm.closeStorage())
	}
	if err := auth.Register(parser); err != nil {
		return nil, errors.Join(err, vm.closeStorage())
	}
	vm.processor, err = chain.NewProcessor(
		log,
		tracer,
		cfg,
		parser,
		state.NewDatabaseStore(vm.db),
		vm.registry,
	)
	if err != nil {
		return nil, errors.Join(err, vm.closeStorage())
	}
	vm.wsServer = ws.NewWebSocketServer(vm, cfg.PubSub)
	vm.processor.Subscribe(vm.wsServer)

	if err := vm.initServer(); err != nil {
		return nil, errors.Join(err, vm.processor.Close(), vm.closeStorage())
	}
	log.Info("initialized vm",
		zap.Stringer("chainID", cfg.GetChainID()),
		zap.Stringer("arithmeticPolicy", cfg.GetArithmeticPolicy()),
		zap.String("database", cfg.DatabaseDirectory),
		zap.Stringer("address", vm.server.Addr()),
	)
	return vm, nil
}

func (vm *VM) openDatabase() error {
	if vm.config.DatabaseDirectory == "" {
		vm.log.Warn("no database directory configured, state will not persist")
		vm.db = memdb.New()
		return nil
	}
	db, registry, err := pebble.New(vm.config.DatabaseDirectory, vm.config.Pebble)
	if err != nil {
		return err
	}
	vm.db = db
	vm.gatherer = append(vm.gatherer, registry)
	return nil
}

func (vm *VM) initServer() error {
	listener, err := net.Listen("tcp", vm.config.HTTPAddress)
	if err != nil {
		return err
	}
	metricsWrapper, err := server.NewMetricsWrapper(vm.registry)
	if err != nil {
		return errors.Join(err, listener.Close())
	}
	vm.server = server.New(vm.log, listener, vm.config.HTTP, metricsWrapper)

	factories := []api.HandlerFactory[api.VM]{
		jsonrpc.JSONRPCServerFactory{},
		ws.NewWebSocketServerFactory(vm.wsServer),
	}
	for _, factory := range factories {
		handler, err := factory.New(vm)
		if err != nil {
			return errors.Join(err, listener.Close())
		}
		if err := vm.server.AddRoute(handler.Handler, handler.Path); err != nil {
			return errors.Join(err, listener.Close())
		}
	}
	metricsHandler := promhttp.HandlerFor(vm.gatherer, promhttp.HandlerOpts{})
	if err := vm.server.AddRoute(metricsHandler, MetricsEndpoint); err != nil {
		return errors.Join(err, listener.Close())
	}
	return nil
}

// Run serves HTTP traffic until [ctx] is cancelled.
func (vm *VM) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vm.log.Info("serving", zap.Stringer("address", vm.server.Addr()))
		if err := vm.server.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return vm.server.Shutdown()
	})
	return g.Wait()
}

// Close releases every resource. [Run] must have returned, if it was
// called.
func (vm *VM) Close() error {
	errs := wrappers.Errs{}
	errs.Add(
		vm.server.Shutdown(),
		vm.processor.Close(),
		vm.closeStorage(),
	)
	return errs.Err
}

func (vm *VM) closeStorage() error {
	errs := wrappers.Errs{}
	errs.Add(
		vm.db.Close(),
		vm.tracer.Close(),
	)
	return errs.Err
}

// SetNumber stores [value] for the caller.
func (vm *VM) SetNumber(ctx context.Context, origin chain.Origin, value uint32) error {
	return vm.processor.Execute(ctx, origin, &actions.SetNumber{Value: value})
}

// RemoveNumber deletes the caller's entry.
func (vm *VM) RemoveNumber(ctx context.Context, origin chain.Origin) error {
	return vm.processor.Execute(ctx, origin, &actions.RemoveNumber{})
}

// IncreaseNumber adds [amount] to the caller's number.
func (vm *VM) IncreaseNumber(ctx context.Context, origin chain.Origin, amount uint32) error {
	return vm.processor.Execute(ctx, origin, &actions.IncreaseNumber{Amount: amount})
}

// DecreaseNumber subtracts [amount] from the caller's number.
func (vm *VM) DecreaseNumber(ctx context.Context, origin chain.Origin, amount uint32) error {
	return vm.processor.Execute(ctx, origin, &actions.DecreaseNumber{Amount: amount})
}

// GetNumber returns the number held by [addr], or 0 if it holds none.
func (vm *VM) GetNumber(ctx context.Context, addr codec.Address) (uint32, error) {
	return storage.GetNumberFromState(ctx, vm.ReadState, addr)
}

// Subscribe registers [sub] for every event emitted after this call.
func (vm *VM) Subscribe(sub event.Subscription[chain.Event]) {
	vm.processor.Subscribe(sub)
}

func (vm *VM) Addr() net.Addr {
	return vm.server.Addr()
}

func (vm *VM) ChainID() ids.ID {
	return vm.config.GetChainID()
}

func (vm *VM) Tracer() trace.Tracer {
	return vm.tracer
}

func (vm *VM) Logger() logging.Logger {
	return vm.log
}

func (vm *VM) Parser() *chain.Parser {
	return vm.processor.Parser()
}

func (vm *VM) Submit(ctx context.Context, tx []byte) (ids.ID, error) {
	return vm.processor.Submit(ctx, tx)
}

func (vm *VM) ReadState(ctx context.Context, keys [][]byte) ([][]byte, []error) {
	return vm.processor.ReadState(ctx, keys)
}
