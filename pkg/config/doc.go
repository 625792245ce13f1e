// Package config provides configuration management for the scout service.
//
// Configuration is read from an optional YAML file, completed with defaults,
// overridden from the environment, and validated before use.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("scout.yaml")                 // file + defaults
//	cfg, err := config.LoadConfigWithEnvOverrides("scout.yaml") // file + defaults + env
//	cfg, err := config.LoadConfigWithEnvOverrides("")           // defaults + env
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SCOUT_SECTION_FIELD:
//
//   - SCOUT_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SCOUT_ENGINE_RULES_FILE overrides engine.rules_file
//   - SCOUT_HISTORY_ENABLED overrides history.enabled
//   - SCOUT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// PORT is honored as well, for platforms that inject it: PORT=8080 listens on
// 0.0.0.0:8080 unless SCOUT_SERVER_LISTEN_ADDRESS is also set.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example
//
//	server:
//	  listen_address: "0.0.0.0:5000"
//	  static_dir: "frontend"
//	engine:
//	  rules_file: "rules.yaml"
//	  watch: true
//	  max_ingredients: 200
//	history:
//	  enabled: true
//	  backend: sqlite
//	  sqlite:
//	    driver: sqlite
//	    path: data/history.db
//	  retention:
//	    days: 30
//	    schedule: "0 3 * * *"
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//
// # Validation
//
// Validate collects every problem into a ValidationError whose Errors carry
// the dotted field path (e.g. "history.sqlite.driver"). Sections that are
// disabled (history, engine.git) are not validated.
package config
