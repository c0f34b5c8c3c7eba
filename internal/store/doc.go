/*
Package store holds the per-grid state: materialized rows, the column model,
focus and selection. Every field a renderer may watch is reactive and bound
to the store's own tracking context.

# Key Entities

  - Store: the aggregate for one grid instance.
  - Data: raw rows (hidden included) and the derived view rows.
  - ColumnModel: columns by name in display order, row headers first.
  - Focus / Selection: long-lived, mutated in place, never replaced.

Mutation goes through the dispatcher or the tree operations on Store so
parent/child linkage stays consistent.
*/
package store
