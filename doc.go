// Package krona reconciles the transactions of several brokers into one
// portfolio.
//
// Brokers name the same instrument differently ("EVO", "Evolution Gaming",
// "EVOLUTION_OLD"). A Mapper runs a pipeline of strategies over the raw
// symbols of the transactions and builds a MappingPlan of suggestions, each
// proposing that a raw symbol is a synonym of a canonical symbol. Suggestions
// are reviewed (accepted, declined, or resolved when they conflict) and the
// decisions can be persisted with SaveMappings and replayed with Restore.
//
// A Processor then canonicalizes every transaction with the plan, groups them
// per canonical symbol and applies them in date order to a Position, which
// keeps its cost basis (average cost or FIFO), realized gains, dividends and
// fees. Transactions that cannot be applied are reported as Failures and never
// abort the run.
package krona
