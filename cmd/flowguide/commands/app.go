package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/config"
	"github.com/vikasavnish/flowguide/internal/db"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
)

// app is the wired backend shared by the subcommands.
type app struct {
	kv       store.KV
	store    *store.Store
	network  *netsim.Network
	services *services.Services
	auth     services.AuthService
	close    func()
}

// openKV is swapped in tests.
var openKV = db.OpenKV

func newApp(cfg *config.Config, logger *zap.Logger, onChange func(store.Change)) (*app, error) {
	kv, closeKV, err := openKV(cfg)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{store.WithKey(cfg.Storage.StoreKey), store.WithLogger(logger)}
	if onChange != nil {
		opts = append(opts, store.WithChangeListener(onChange))
	}
	st := store.New(kv, opts...)

	netOpts := []netsim.Option{
		netsim.WithLatencyRange(cfg.Network.MinLatency, cfg.Network.MaxLatency),
		netsim.WithFailureRate(cfg.Network.FailureRate),
	}
	if !cfg.Network.Enabled {
		netOpts = append(netOpts, netsim.Disabled())
	}
	network := netsim.New(netOpts...)

	auth, err := services.NewAuthService(kv, cfg.Storage.SessionKey, cfg.JWT.SecretKey, cfg.JWT.TokenTTL, cfg.Demo.Passcode)
	if err != nil {
		closeKV()
		return nil, fmt.Errorf("initializing auth: %w", err)
	}

	return &app{
		kv:       kv,
		store:    st,
		network:  network,
		services: services.New(st, network, nil),
		auth:     auth,
		close:    closeKV,
	}, nil
}
