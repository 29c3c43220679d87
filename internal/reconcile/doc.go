// Package reconcile implements the Reconciliation Engine.
//
// The Reconciliation Engine:
//   - Groups raw claim records by account and calendar date
//   - Applies the same-day dedup rule (a success suppresses that day's failures)
//   - Produces one AccountAggregate per account over the query window
//
// The source system expressed the dedup via SQL FILTER / correlated NOT EXISTS
// clauses; here it is explicit in-memory grouping so the logic is
// storage-agnostic and testable without a database. Reconciliation is pure and
// safe for concurrent use.
package reconcile
