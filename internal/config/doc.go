// Package config loads oven.json, the project configuration used by the
// oven command.
//
// # Configuration File Structure
//
//	{
//	  "name": "site",
//	  "host": "localhost",
//	  "port": 3000,
//	  "appDir": "app",
//	  "publicDir": "public",
//	  "basePath": "",
//	  "lang": "en",
//	  "logLevel": "info",
//	  "logFormat": "text",
//	  "accessLog": "dev",
//	  "dev": {
//	    "enabled": true,
//	    "watch": ["app", "public"],
//	    "ignore": ["*.tmp"],
//	    "debounceMs": 100
//	  },
//	  "static": {"prefix": "/", "cacheControl": "none"},
//	  "metrics": {"enabled": true, "path": "/metrics", "namespace": "oven"},
//	  "tracing": {"enabled": false},
//	  "cors": {"enabled": true, "origins": ["https://example.com"]},
//	  "compress": {"enabled": true, "minSize": 1024}
//	}
//
// Values are resolved in order: built-in defaults, oven.json, a .env file
// next to oven.json, then OVEN_* environment variables.
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
