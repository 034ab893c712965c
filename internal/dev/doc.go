// Package dev provides the development loop: file watching, route tree
// rebuilds and browser refresh.
//
// The pieces are:
//
//   - Watcher: reports debounced batches of file changes (fsnotify)
//   - ReloadServer: pushes reload messages to browsers over a WebSocket
//   - Reloader: rebuilds the app on change and tells browsers about it
//
// # Usage
//
//	rs := dev.NewReloadServer(logger)
//	mux.HandleFunc(dev.ReloadPath, rs.HandleWebSocket)
//
//	w := dev.NewWatcher(dev.WatcherConfig{Paths: dev.CollectWatchPaths(cfg)})
//	w.OnChange(dev.NewReloader(app, rs, logger).Handle)
//	go w.Start(ctx)
//
// Pages pick up the client by adding ClientScript to oven.Config.Scripts.
//
// # Reload Protocol
//
// The browser connects to /_oven/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}                // full page reload
//	{"type": "css", "file": "..."}    // stylesheet refresh
//	{"type": "error", "error": "..."} // shows error overlay
//	{"type": "clear"}                 // clears error overlay
package dev
