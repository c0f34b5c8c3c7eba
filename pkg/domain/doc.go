/*
Package domain contains the core data model of the Lattice grid.

It defines rows and their tree linkage, column metadata, the closed vocabulary
of keyboard commands and the lifecycle events emitted by the dispatcher. The
package only depends on the reactive primitive, which backs row values and
tree attributes so that readers are re-run when they change.

# Key Entities

  - Row: A materialized record keyed by column name, with a stable RowKey.
  - TreeAttributes: Parent/child linkage and expand/hidden state of a row.
  - Column: Column metadata; an Editor makes the column editable.
  - Action: A (Type, Command) pair produced by the keymap.
  - SelectionRange: An inclusive rectangular span in data coordinates.
*/
package domain
