// Package logging provides a minimal logging interface and adapters for AgentComm.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the coordinator and its stores use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - AgentCommLogger with contextual helpers (component, agent) and domain
//     specific logging helpers for sends, deliveries and resolution failures
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	comm := agentcomm.New(func(o *agentcomm.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
