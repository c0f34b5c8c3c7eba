// Package tree materializes nested input rows into the flat, linked row list
// held by the store, and answers structural queries (depth, hidden, leaf).
//
// Every walk in this package uses an explicit work stack: hierarchies can be
// thousands of levels deep.
package tree
