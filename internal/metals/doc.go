// Package metals implements the weighted-average-cost ledger for precious
// metal holdings: unit normalization, the position fold, valuation
// summaries, and pre-trade validation.
//
// Every function in this package is a pure computation over its arguments.
// Nothing here touches the database, performs I/O, or holds state between
// calls, so positions are always re-derived from the complete ordered
// transaction history rather than read from an incrementally-updated
// cache. All functions are safe for concurrent use.
package metals
