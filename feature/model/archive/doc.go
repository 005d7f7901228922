// Package archive persists sync session snapshots to object storage.
//
// Every finished session is written as one JSON object under
// snapshots/<scope>/<session-id>.json. Archival is best effort: a failed
// upload is logged and the session outcome stands regardless.
package archive
