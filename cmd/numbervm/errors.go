// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import "errors"

var ErrKeyExists = errors.New("key already exists")
