// Package runner implements the fan-out / fan-in driver of agentfan.
//
// A Runner sends one input message to a fixed list of agents concurrently,
// waits for every call to finish, and returns the outputs in the order the
// agents were given, independent of completion order.
//
// # Error policies
//   - FailFast (default): the first backend error cancels all in-flight calls
//     and RunAll returns an *AgentError without a batch.
//   - Isolate: failures are recorded on the failing agent's Result and the
//     remaining outputs are still returned.
//
// Concurrency can be bounded with Options.MaxConcurrency and each call can be
// given a deadline with Options.CallTimeout.
package runner
