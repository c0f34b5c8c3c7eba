/*
Package dispatch applies keyboard commands to a store: focus movement,
editing, range selection and content removal.

The dispatcher keeps no state of its own. Each call reads focus, selection
and the view rows from the store, computes the next cell through a
ports.CellResolver and writes the result back. Inputs that cannot be
resolved (no focus, empty grid, no remove range) are silent no-ops.

Boundary policy: the default resolver clamps. Row and column moves stop at
the edges; prevCell and nextCell continue onto the previous or next row and
stop at the first and last cell. Whatever a resolver returns is clamped
again before use.
*/
package dispatch
