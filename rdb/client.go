// Copyright 2025 The PATENTWORLD Authors
//   This file is part of PATENTWORLD.
//
//  PATENTWORLD is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  PATENTWORLD is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with PATENTWORLD.  If not, see <https://www.gnu.org/licenses/>.

package rdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"patentworld/dataset"
	"time"

	"github.com/czcorpus/cnc-gokit/datetime"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultKeyPrefix   = "patentworld:data"
	DefaultPayloadTTL  = 24 * time.Hour
	DefaultOpTimeout   = 2 * time.Second
	connTestRetryPause = 2 * time.Second
)

type Conf struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	DB        int    `json:"db"`
	Password  string `json:"password"`
	KeyPrefix string `json:"keyPrefix"`

	// PayloadTTL is a duration string (e.g. `12h`, `7d`)
	PayloadTTL string `json:"payloadTtl"`
}

func (conf *Conf) IsConfigured() bool {
	return conf != nil && conf.Host != ""
}

func (conf *Conf) ValidateAndDefaults() error {
	if conf.Port == 0 {
		conf.Port = 6379
		log.Warn().Int("port", conf.Port).Msg("redis port not specified, using default")
	}
	if conf.KeyPrefix == "" {
		conf.KeyPrefix = DefaultKeyPrefix
		log.Warn().Str("prefix", conf.KeyPrefix).Msg("redis key prefix not specified, using default")
	}
	if conf.PayloadTTL != "" {
		if _, err := datetime.ParseDuration(conf.PayloadTTL); err != nil {
			return fmt.Errorf("invalid redis payloadTtl: %w", err)
		}
	}
	return nil
}

func (conf *Conf) TTL() time.Duration {
	if conf.PayloadTTL == "" {
		return DefaultPayloadTTL
	}
	// validated in ValidateAndDefaults
	ans, _ := datetime.ParseDuration(conf.PayloadTTL)
	return ans
}

// ---------------------------

// Adapter stores unwrapped dataset payloads in Redis so that
// multiple service instances share fetched data files.
type Adapter struct {
	c         *redis.Client
	keyPrefix string
	ttl       time.Duration
	opTimeout time.Duration
}

func (a *Adapter) mkKey(path dataset.DataPath) string {
	return fmt.Sprintf("%s:%s", a.keyPrefix, path)
}

func (a *Adapter) GetPayload(ctx context.Context, path dataset.DataPath) (json.RawMessage, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opTimeout)
	defer cancel()
	cmd := a.c.Get(ctx, a.mkKey(path))
	if errors.Is(cmd.Err(), redis.Nil) {
		return nil, false, nil

	} else if cmd.Err() != nil {
		return nil, false, fmt.Errorf("failed to get payload of %s: %w", path, cmd.Err())
	}
	data, err := cmd.Bytes()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get payload of %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, false, fmt.Errorf("stored payload of %s is not a valid JSON", path)
	}
	return json.RawMessage(data), true, nil
}

func (a *Adapter) SetPayload(ctx context.Context, path dataset.DataPath, payload json.RawMessage) error {
	ctx, cancel := context.WithTimeout(ctx, a.opTimeout)
	defer cancel()
	if err := a.c.Set(ctx, a.mkKey(path), []byte(payload), a.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store payload of %s: %w", path, err)
	}
	return nil
}

// TestConnection pings Redis until it responds or timeout elapses
func (a *Adapter) TestConnection(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		err := a.c.Ping(ctx).Err()
		if err == nil {
			log.Info().Msg("connection to Redis OK")
			return nil
		}
		log.Warn().Err(err).Msg("Redis not ready yet, waiting")
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to connect to Redis: %w", err)
		case <-time.After(connTestRetryPause):
		}
	}
}

func (a *Adapter) Close() error {
	return a.c.Close()
}

func NewAdapter(conf *Conf) *Adapter {
	return &Adapter{
		c: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
			Password: conf.Password,
			DB:       conf.DB,
		}),
		keyPrefix: conf.KeyPrefix,
		ttl:       conf.TTL(),
		opTimeout: DefaultOpTimeout,
	}
}
