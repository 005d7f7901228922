// Package decode turns raw source model nodes into typed, flat attribute
// records.
//
// Source exports deliver nodes as loosely-typed attribute bags with up to one
// level of nested groups (report attributes, user-defined attributes). The
// decoder flattens those groups under a fixed precedence, coerces every value
// into a tagged primitive and extracts the identity key named by the active
// source profile. Nodes without an identity key are skipped rather than
// failing the whole page.
package decode
