// Package cli provides the command-line interface for the atlas application.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tr-officials/atlas/internal/app"
)

// ctxKey is used for storing the application in command contexts
type ctxKey string

const appKey ctxKey = "app"

// SetApp stores the Application on the command's context. A package-level
// reference is kept as well so helpers without a command in hand can reach it.
func SetApp(cmd *cobra.Command, a *app.Application) {
	if cmd == nil {
		return
	}
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	cmd.SetContext(context.WithValue(base, appKey, a))
	globalApp = a
}

// GetAppFromCmd retrieves the Application from the command's context,
// falling back to the package-level reference.
func GetAppFromCmd(cmd *cobra.Command) *app.Application {
	if cmd != nil && cmd.Context() != nil {
		if a, ok := cmd.Context().Value(appKey).(*app.Application); ok && a != nil {
			return a
		}
	}
	return globalApp
}

var globalApp *app.Application
