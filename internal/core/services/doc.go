// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval pipeline is: collect files, chunk, embed, store, then
// search, re-rank with maximal marginal relevance, and ask the model.
package services
