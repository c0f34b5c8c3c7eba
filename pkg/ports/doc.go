/*
Package ports defines the driven ports (interfaces) of the Lattice grid core.

These interfaces decouple the dispatcher from collaborators whose policy is
pluggable.

# Key Interfaces

  - CellResolver: Resolves the next cell index for a Command (the wrap/clamp policy).
  - RowFinder: Looks rows up by key (implemented by the store).
*/
package ports
