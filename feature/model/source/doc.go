// Package source fetches model graph nodes from the external model API.
//
// The client follows pagination cursors until the node listing is exhausted
// and returns the complete set as one FetchResult value. Fetches are
// all-or-nothing: a failed page aborts the fetch so a truncated node set can
// never be mistaken for a smaller model.
package source
