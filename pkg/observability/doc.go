/*
Package observability exposes grid activity as Prometheus metrics.

Metrics.Hooks returns lifecycle hooks that count dispatched actions, focus
changes, rejected moves, edit starts, selection changes and cleared cells.
Merge them with other hooks through domain.MergeHooks.
*/
package observability
