// Package reorder merges drag-and-drop moves back into a canonical ordering.
//
// A list is often shown through a filter, so positions in the visible view
// are not positions in the full list. [Reconcile] works on keys instead of
// indexes in that case and leaves every hidden item where it was. The output
// always holds the same keys as the input, each exactly once.
//
// [SafeMove] and [Dedupe] enforce that no key appears twice after any
// index-based move. A non-zero duplicate count means some earlier step
// already corrupted the list.
//
// Every function here is pure and returns a fresh slice.
package reorder
