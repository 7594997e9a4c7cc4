// Command apiserver serves the account API: sign-up, login, logout and the
// current user, authenticated with session-bound tokens.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/apikit/pkg/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("apiserver stopped", logger.Error(err))
		os.Exit(1)
	}
}
