// Package agent contains the persona agent used by agentfan.
//
// An Agent is an immutable persona: a name, system instructions and a model
// identifier. Run turns one input message into exactly one backend call and
// extracts the text of the first choice. The package also loads persona
// definitions from YAML or JSON documents.
//
// Design principles:
//   - Immutable after construction – fields are unexported, getters only
//   - Stateless – every Run builds a fresh two message prompt
//   - No error hiding – backend failures are returned to the caller, while a
//     response without content is reported as a nil output
package agent
