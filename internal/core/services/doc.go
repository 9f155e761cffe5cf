// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The reconciler turns workspace and document sources into dated
// documents. The analyzer turns documents into model insights. The
// pipeline joins both into a recorded run with deliveries.
//
// Services are pure Go with no CGO.
package services
