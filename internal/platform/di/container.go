// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"net/http"
	"strings"

	httpin "phonemall/internal/adapters/in/http"
	appcfg "phonemall/internal/infra/config"
	consoledi "phonemall/internal/platform/di/console"
	malldi "phonemall/internal/platform/di/mall"
	shared "phonemall/internal/platform/di/shared"
)

// Container is what main uses: one root handler plus lifecycle hooks.
type Container struct {
	Infra   *shared.Infra
	Repos   *shared.Repos
	Mall    *malldi.Container
	Console *consoledi.Container
}

// Build connects every backing service and wires both surfaces.
func Build(ctx context.Context, cfg *appcfg.Config) (*Container, error) {
	inf, err := shared.NewInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}
	repos, err := shared.NewRepos(ctx, inf)
	if err != nil {
		_ = inf.Close()
		return nil, err
	}
	return &Container{
		Infra:   inf,
		Repos:   repos,
		Mall:    malldi.NewContainer(inf, repos),
		Console: consoledi.NewContainer(repos),
	}, nil
}

// Handler returns the root HTTP handler.
func (c *Container) Handler() http.Handler {
	cfg := c.Infra.Config

	health := map[string]httpin.HealthCheck{"firestore": c.Infra.Firestore.Ping}
	if db := c.Infra.Postgres; db != nil {
		health["postgres"] = db.Client.PingContext
	}

	deps := httpin.RouterDeps{
		Mall:           c.Mall.Router(),
		Console:        c.Console.Router(),
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		SecureCookies:  strings.HasPrefix(cfg.MallBaseURL, "https://"),
		Health:         health,
	}
	if v := c.Infra.TokenVerifier(); v != nil {
		deps.Verifier = v
	}
	return httpin.NewRouter(deps)
}

// Run starts background work (cart session sweeping) until ctx is done.
func (c *Container) Run(ctx context.Context) {
	c.Mall.Run(ctx)
}

// Close flushes carts, then releases clients.
func (c *Container) Close(ctx context.Context) error {
	return errors.Join(c.Mall.Close(ctx), c.Infra.Close())
}
