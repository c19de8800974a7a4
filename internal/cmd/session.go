package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sourcegraph/conc/pool"
)

const shutdownTimeout = 5 * time.Second

// sessionParams controls how runSession drives a runtime.
type sessionParams struct {
	// autoStart begins a session immediately instead of waiting for a
	// bridge client to request one.
	autoStart bool
	// listener serves the bridge when the runtime has one.
	listener net.Listener
	// onReady is called once everything is running.
	onReady func()
}

// runSession runs rt until ctx is done, then stops the game and shuts the
// bridge down. Server failures end the session early.
func runSession(ctx context.Context, rt *runtime, p sessionParams) error {
	group := pool.New().WithContext(ctx).WithCancelOnError()

	if rt.bridge != nil && p.listener != nil {
		if err := rt.bridge.Start(ctx); err != nil {
			return err
		}
		srv := &http.Server{
			Handler:           rt.bridge.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		group.Go(func(ctx context.Context) error {
			err := srv.Serve(p.listener)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("bridge server failed: %w", err)
		})
		group.Go(func(ctx context.Context) error {
			<-ctx.Done()
			rt.bridge.Stop()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		rt.logger.Info("bridge listening", "addr", p.listener.Addr().String())
	}

	if p.autoStart {
		rt.ctl.Start(ctx)
	}
	group.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	if p.onReady != nil {
		p.onReady()
	}

	err := group.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	rt.ctl.Stop(stopCtx)
	return err
}
