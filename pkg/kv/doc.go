// Package kv provides the durable key-value slot the record store persists into.
//
// A Slot stores one opaque value per key and always replaces it wholesale; there is
// no partial update. Backends that can observe writes made by other processes also
// implement Watcher, which is how the store learns that another instance (another
// terminal, another tab of the same device) replaced the document.
//
// Three backends are provided:
//
//   - Memory: in-process map, optionally with a byte quota that makes Set fail the way
//     a full browser storage would. Several stores sharing one Memory behave like
//     several tabs sharing one origin.
//   - File: one file per key under a base directory. Writes go to a temporary file
//     that is renamed over the target, so readers never observe a torn document.
//     Changes are observed with fsnotify.
//   - Redis: GET/SET on a go-redis client; every Set also publishes on "<key>:changed"
//     which Watch subscribes to.
//
// # Usage
//
//	slot, err := kv.NewFile("./data")
//	if err != nil {
//	    return err
//	}
//	if err := slot.Set(ctx, "subscription-tracker-data", doc); err != nil {
//	    return err
//	}
//	changes, err := slot.Watch(ctx, "subscription-tracker-data")
//	for range changes {
//	    // reload
//	}
//
// # Error Handling
//
// Get returns ErrNotFound for a missing key. Memory returns ErrQuotaExceeded when a
// write would exceed its quota. Keys that are empty or, for File, contain path
// separators are rejected with ErrInvalidKey.
package kv
