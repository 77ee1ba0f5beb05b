package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
)

// BackendGet performs a GET against the list backend and prints the body.
func (r *Runner) BackendGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if r.api == nil {
		return fmt.Errorf("%w: backend not configured", shared.ErrServiceUnavailable)
	}

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return err
	}
	return r.writeResponse(resp, cmd.Bool("pretty"))
}

// BackendPost sends --data as the JSON body of a POST.
func (r *Runner) BackendPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if r.api == nil {
		return fmt.Errorf("%w: backend not configured", shared.ErrServiceUnavailable)
	}

	resp, err := r.api.Post(ctx, path, []byte(cmd.String("data")))
	if err != nil {
		return err
	}
	return r.writeResponse(resp, true)
}

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if resp.IsJSON {
		if err := r.writeJSON(resp.JSONData, pretty); err != nil {
			return err
		}
	} else {
		r.writePlain("%s\n", resp.Body)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
