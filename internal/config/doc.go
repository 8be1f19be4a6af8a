// Package config loads ovan.json for the ovan command.
//
// # Configuration File Structure
//
//	{
//	  "name": "demo",
//	  "logLevel": "debug",
//	  "inspector": {
//	    "host": "0.0.0.0",
//	    "port": 7070,
//	    "allowedOrigins": ["http://localhost:3000"]
//	  },
//	  "frame": { "interval": "16ms" },
//	  "metrics": { "enabled": true, "namespace": "ovan" },
//	  "tracing": { "enabled": false },
//	  "archive": { "bucket": "overlay-snapshots", "prefix": "demo/" }
//	}
//
// Every field is optional. Command-line flags override file values.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
