package dataservice

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bergwerk/iceberg-data/auth"
	"github.com/bergwerk/iceberg-data/auth/firebaseauth"
	"github.com/bergwerk/iceberg-data/cache"
	"github.com/bergwerk/iceberg-data/cache/memcache"
	"github.com/bergwerk/iceberg-data/cache/rediscache"
	"github.com/bergwerk/iceberg-data/config"
	"github.com/bergwerk/iceberg-data/netcheck"
	"github.com/bergwerk/iceberg-data/pkg/logger"
	"github.com/bergwerk/iceberg-data/store"
	"github.com/bergwerk/iceberg-data/store/firestore"
	"github.com/bergwerk/iceberg-data/store/mongodb"
)

// Open connects every collaborator described by cfg and wires a Service.
// provider may be nil: with the Firestore backend the Firebase auth adapter
// is built from the same app, otherwise the service starts unauthenticated
// until the embedding app supplies a session.
func Open(ctx context.Context, cfg *config.Config, provider auth.Provider, log *zap.SugaredLogger) (*Service, error) {
	if log == nil {
		level := zapcore.InfoLevel
		if !cfg.IsProduction() {
			level = zapcore.DebugLevel
		}
		log = logger.New(level)
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.StoreBackend {
	case config.BackendMongo:
		st, err = mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		st, err = firestore.Connect(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting %s store: %w", cfg.StoreBackend, err)
	}
	log.Infow("connected to remote store", "backend", cfg.StoreBackend)

	if provider == nil {
		if fst, ok := st.(*firestore.Store); ok {
			provider, err = firebaseauth.New(ctx, fst.App)
			if err != nil {
				_ = st.Close()
				return nil, fmt.Errorf("creating auth provider: %w", err)
			}
		} else {
			provider = auth.Anonymous()
		}
	}

	var c cache.Cache
	if rc, rerr := rediscache.Connect(cfg.RedisURI); rerr != nil {
		// Degraded mode: reads still work online, but the offline mirror
		// will not survive a restart.
		log.Warnw("redis unavailable, using in-process cache", "error", rerr)
		c = memcache.New()
	} else {
		log.Infow("connected to redis")
		c = rc
	}

	probe := netcheck.New(cfg.ProbeURL, cfg.ProbeTimeout)

	return New(st, c, probe, provider, log), nil
}

// Close releases the remote store connection and, when the cache holds one
// (the Redis adapter does, the in-process map does not), its connection pool.
func (s *Service) Close() error {
	err := s.store.Close()
	if closer, ok := s.cache.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
