// Package canonical aggregates decoded source nodes into the entities the
// sync pipeline diffs and persists.
//
// An entity is identified by its identity key and carries a display name, its
// source object linkage, a numeric measure map and the remaining scalar
// attributes. Element syncs map nodes one-to-one; assembly syncs group nodes
// by identity key and sum the profile's measures across each group. Grouping
// preserves first-seen order, which keeps the whole pipeline deterministic
// for a given fetch.
package canonical
