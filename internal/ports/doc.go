// Package ports defines the interfaces that connect the client core to the
// underlying sound system.
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters, internal/queue) implement them
// with concrete backends, which keeps the state machine, the port matcher and
// the retrieval bridge testable with in-memory fakes.
//
//   - [Sequencer]: the boundary to the sound-sequencer service (session,
//     ports, subscriptions, raw-event decoding)
//   - [EventQueue]: the buffer between the capture context and the consumer
//   - [EventSink]: the delivery target for captured hardware events
package ports
