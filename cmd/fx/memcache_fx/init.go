package memcache_fx

import (
	"go.uber.org/fx"

	mem "coivault/pkg/memcache"
)

var Module = fx.Provide(provideViewCache)

func provideViewCache() mem.ViewCache {
	return mem.NewViewCache()
}
