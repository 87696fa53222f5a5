// Package labops is a command-line and terminal client for a lab inventory
// service.
//
// # Overview
//
// labops lists, filters and looks up the hosts, racks and switches tracked by
// the inventory service, and presents racks as a navigable room → rack → host
// tree.
//
// The tool consists of three layers:
//   - Client: HTTP access to the inventory service (pkg/labops/client)
//   - Source: cached snapshots of hosts, racks and switches (internal/inventory)
//   - Frontends: cobra commands and a Bubble Tea browser (internal/commands, internal/tui)
//
// # Architecture
//
//	┌─────────────────┐   ┌─────────────────┐
//	│  CLI (cobra)    │   │  TUI (bubbletea)│
//	└────────┬────────┘   └────────┬────────┘
//	         │                     │
//	┌────────▼─────────────────────▼────────┐
//	│  Source: filter, tree, navigator      │
//	└────────┬─────────────────────┬────────┘
//	         │                     │
//	┌────────▼────────┐   ┌────────▼────────┐
//	│  HTTP client    │   │  SQLite cache   │
//	└─────────────────┘   └─────────────────┘
//
// # Usage
//
// Look up one host by asset ID or hardware ID:
//
//	labops 100234
//	labops SVR.ABC1234
//
// List and filter hosts. An inexact platform offers similar platforms as a
// numbered menu:
//
//	labops hosts --status available --platform monza --bmc
//
// Inspect racks and switches:
//
//	labops racks --position SEA85.159
//	labops rack SEA85.159.R6-L01
//	labops rack-contents --rack-id SEA85.159.R6-L01
//	labops switches --status up
//	labops summary
//
// Browse interactively:
//
//	labops tui
//
// Responses are cached in SQLite for five minutes by default. Bypass the
// cache for one run with --refresh, or empty it:
//
//	labops cache clear
//
// # Configuration
//
// Configuration can be provided via:
//   - YAML file (./config.yaml, ./configs, ~/.labops, /etc/labops)
//   - Environment variables (LABOPS_ prefix, plus API_BASE_URL and API_KEY)
//   - .env file
//
// Example configuration:
//
//	api:
//	  base_url: https://inventory.example.com
//	  key: secret
//	cache:
//	  ttl: 5m
//	logging:
//	  level: info
//
// # Development
//
// Run tests:
//
//	go test ./...
//
// Run integration tests against a live service:
//
//	LABOPS_API_BASE_URL=https://inventory.example.com go test -tags=integration ./pkg/labops/client/...
//
// Build the binary:
//
//	go build -o labops ./cmd/labops
package labops
