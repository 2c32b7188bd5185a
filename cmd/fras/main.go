package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spec-kit/fras-portal/internal/console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

// describe renders client errors the way the consoles show them.
func describe(err error) string {
	var apiErr *console.APIError
	var transportErr *console.TransportError
	var validationErr *console.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &apiErr):
		if apiErr.Code != "" {
			return fmt.Sprintf("%s (%s, HTTP %d)", apiErr.Message, apiErr.Code, apiErr.StatusCode)
		}
		return fmt.Sprintf("%s (HTTP %d)", apiErr.Message, apiErr.StatusCode)
	case errors.As(err, &transportErr):
		return "backend unreachable: " + transportErr.Err.Error()
	case errors.Is(err, console.ErrNotLoggedIn):
		return "not logged in, run `fras login` first"
	}
	return err.Error()
}
