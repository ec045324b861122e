// Package model defines the provider‑agnostic chat backend contract used by
// agents, plus small helpers around it.
//
// Core goals:
//   - One request/response exchange per call: a model identifier plus an ordered message list
//   - A strongly typed response whose content extraction is a total function
//   - Lightweight deterministic mocking for tests (MockBackend)
//   - Composable wrappers such as CallLimiter
//
// Providers (e.g. OpenAI, Anthropic) implement the Backend interface from this
// package so agents and the runner remain decoupled from vendor SDKs.
package model
