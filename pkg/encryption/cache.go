/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package encryption

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Engine construction is cheap but the provider behind it is not: it holds
// authenticated connections to every key server. The process keeps one
// engine per distinct (network, verify flag, server set) and reuses it;
// changing any part of the key deterministically builds a fresh instance.
var engineCache = struct {
	sync.Mutex
	instances map[string]*Engine
}{instances: map[string]*Engine{}}

// Get returns the process-wide engine for cfg, creating it on first use.
func Get(cfg *Config) *Engine {
	key := cacheKey(cfg)

	engineCache.Lock()
	defer engineCache.Unlock()

	if existing, ok := engineCache.instances[key]; ok {
		return existing
	}

	created := New(cfg)
	engineCache.instances[key] = created

	return created
}

func cacheKey(cfg *Config) string {
	servers := lo.Uniq(cfg.ServerIDs)
	sort.Strings(servers)

	return cfg.Network + "|" + strconv.FormatBool(cfg.Verify) + "|" + strings.Join(servers, ",")
}
