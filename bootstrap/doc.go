// Package bootstrap gives the pipes binary a uniform lifecycle.
//
// An App owns the configuration, the logger and a component.Registry.
// RunTask starts the registered components, runs the OnStart hooks, executes
// a finite task under a context that SIGINT/SIGTERM cancel, and then shuts
// everything down within the graceful timeout:
//
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(composition)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return feed(ctx, composition)
//	})
package bootstrap
