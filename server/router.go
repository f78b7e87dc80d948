// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/gorilla/mux"
)

var errDuplicateRoute = errors.New("route already exists")

type router struct {
	lock   sync.RWMutex
	router *mux.Router

	routes set.Set[string]
}

func newRouter() *router {
	return &router{
		router: mux.NewRouter(),
		routes: set.Set[string]{},
	}
}

func (r *router) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	r.router.ServeHTTP(writer, request)
}

// AddRouter registers [handler] for every request whose path starts with
// [path].
func (r *router) AddRouter(path string, handler http.Handler) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.routes.Contains(path) {
		return fmt.Errorf("%w: %s", errDuplicateRoute, path)
	}
	r.routes.Add(path)
	r.router.PathPrefix(path).Handler(handler)
	return nil
}
