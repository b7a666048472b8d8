// Package backend selects the ledger store implementation from
// configuration.
package backend

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/storage"
	"github.com/spendlog/spendlog/internal/storage/csvfile"
	"github.com/spendlog/spendlog/internal/storage/sqlite"
)

var drivers = map[string]func(config.DBConfig) (storage.Storage, error){
	"sqlite": sqlite.New,
	"csv": func(dbConfig config.DBConfig) (storage.Storage, error) {
		return csvfile.New(dbConfig.Source), nil
	},
}

// Open builds the store for the configured driver.
func Open(conf *config.Config) (storage.Storage, error) {
	constructor, ok := drivers[conf.DB.Driver]
	if !ok {
		supported := maps.Keys(drivers)
		sort.Strings(supported)
		return nil, fmt.Errorf("unknown db driver %q (supported: %v)", conf.DB.Driver, supported)
	}

	return constructor(conf.DB)
}
