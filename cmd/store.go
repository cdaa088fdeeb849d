package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/adjuster-intel/internal/config"
	"github.com/sells-group/adjuster-intel/internal/resilience"
	"github.com/sells-group/adjuster-intel/internal/store"
)

// initStore opens the configured backend, retrying transient connection
// failures.
func initStore(ctx context.Context, sc config.StoreConfig) (store.Store, error) {
	retry := resilience.ConnectRetryConfig(sc.ConnectRetries, "open "+sc.Driver)

	st, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (store.Store, error) {
		switch sc.Driver {
		case "sqlite":
			s, err := store.NewSQLite(sc.SQLitePath())
			if err != nil {
				return nil, err
			}
			if err := s.Ping(ctx); err != nil {
				s.Close() //nolint:errcheck
				return nil, err
			}
			return s, nil
		case "postgres":
			return store.NewPostgres(ctx, sc.DatabaseURL, &store.PoolConfig{
				MaxConns: sc.MaxConns,
				MinConns: sc.MinConns,
			})
		default:
			return nil, eris.Errorf("unsupported store driver: %s", sc.Driver)
		}
	})
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	zap.L().Debug("store opened", zap.String("driver", sc.Driver))
	return st, nil
}
