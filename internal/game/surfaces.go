package game

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/Iron-Ham/whacaconsole/internal/errors"
	"github.com/Iron-Ham/whacaconsole/internal/shell"
)

// switchSurfaces opens one surface and closes another concurrently. Failures
// are logged; the state transition around the switch stands either way.
func (c *Controller) switchSurfaces(ctx context.Context, open shell.SurfaceDescriptor, closeID string) {
	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return c.guard("open_surface", open.ID, func() error {
			return c.shell.OpenSurface(ctx, open)
		})
	})
	p.Go(func(ctx context.Context) error {
		return c.guard("close_surface", closeID, func() error {
			return c.shell.CloseSurface(ctx, closeID)
		})
	})
	if err := p.Wait(); err != nil {
		c.logger.Warn("surface switch incomplete", "error", err)
	}
}

// callShell runs a fire-and-forget shell request and logs its failure.
func (c *Controller) callShell(op, surfaceID string, fn func() error) {
	if err := c.guard(op, surfaceID, fn); err != nil {
		c.logger.Warn("shell request failed", "error", err)
	}
}

// guard runs fn, turning an error or a panic into a *errors.CollaboratorError.
func (c *Controller) guard(op, surfaceID string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewCollaboratorError(op, fmt.Errorf("panic: %v", r)).WithSurface(surfaceID)
		}
	}()
	if ferr := fn(); ferr != nil {
		return errors.NewCollaboratorError(op, ferr).WithSurface(surfaceID)
	}
	return nil
}
