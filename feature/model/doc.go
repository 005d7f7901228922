// Package model is the sync feature: it wires the source client, decoder,
// canonicalizer, record store, session manager and snapshot archive into a
// service and exposes the session lifecycle over HTTP.
//
// The subpackages split the pipeline by phase: source fetches raw nodes,
// decode types them, canonical groups them into entities, store persists
// them, session drives the fetch-diff-apply state machine and archive keeps
// the outcome history in object storage.
package model
