// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/numbervm/chain"
	"github.com/ava-labs/numbervm/consts"
	"github.com/ava-labs/numbervm/internal/logging"
	"github.com/ava-labs/numbervm/pebble"
	"github.com/ava-labs/numbervm/pubsub"
	"github.com/ava-labs/numbervm/server"
	"github.com/ava-labs/numbervm/trace"
)

const (
	DefaultHTTPAddress    = "127.0.0.1:9650"
	DefaultValidityWindow = 60 * time.Second
)

var (
	_ chain.Rules = (*Config)(nil)

	ErrInvalidValidityWindow = errors.New("validity window must be positive")

	// DefaultChainID is used when no chain id is configured.
	DefaultChainID ids.ID = hashing.ComputeHash256Array([]byte(consts.Name))
)

type Config struct {
	Log   logging.Config `yaml:"log"`
	Trace trace.Config   `yaml:"trace"`

	// DatabaseDirectory holds the pebble database. When empty, state is
	// kept in memory and lost on shutdown.
	DatabaseDirectory string        `yaml:"databaseDirectory"`
	Pebble            pebble.Config `yaml:"pebble"`

	HTTPAddress string              `yaml:"httpAddress"`
	HTTP        server.HTTPConfig   `yaml:"http"`
	PubSub      pubsub.ServerConfig `yaml:"pubsub"`

	ChainID          string        `yaml:"chainID"`
	ArithmeticPolicy string        `yaml:"arithmeticPolicy"`
	ValidityWindow   time.Duration `yaml:"validityWindow"`

	chainID ids.ID
	policy  chain.ArithmeticPolicy
}

func NewDefaultConfig() Config {
	return Config{
		Log:              logging.NewDefaultConfig(),
		Trace:            trace.NewDefaultConfig(),
		Pebble:           pebble.NewDefaultConfig(),
		HTTPAddress:      DefaultHTTPAddress,
		HTTP:             server.NewDefaultHTTPConfig(),
		PubSub:           pubsub.NewDefaultServerConfig(),
		ChainID:          DefaultChainID.String(),
		ArithmeticPolicy: chain.Wrapping.String(),
		ValidityWindow:   DefaultValidityWindow,
		chainID:          DefaultChainID,
		policy:           chain.Wrapping,
	}
}

// New parses a YAML (or JSON) document over the defaults.
func New(b []byte) (*Config, error) {
	c := NewDefaultConfig()
	if len(b) > 0 {
		if err := yaml.UnmarshalStrict(b, &c); err != nil {
			return nil, err
		}
	}
	if err := c.parse(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads the config at [path]. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return New(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}

func (c *Config) parse() error {
	chainID, err := ids.FromString(c.ChainID)
	if err != nil {
		return fmt.Errorf("invalid chain id %q: %w", c.ChainID, err)
	}
	policy, err := chain.ParseArithmeticPolicy(c.ArithmeticPolicy)
	if err != nil {
		return err
	}
	if c.ValidityWindow <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidValidityWindow, c.ValidityWindow)
	}
	c.chainID = chainID
	c.policy = policy
	return nil
}

func (c *Config) GetChainID() ids.ID {
	return c.chainID
}

func (c *Config) GetValidityWindow() int64 {
	return c.ValidityWindow.Milliseconds()
}

func (c *Config) GetArithmeticPolicy() chain.ArithmeticPolicy {
	return c.policy
}
