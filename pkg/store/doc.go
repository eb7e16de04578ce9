// Package store owns the subscription collection and keeps it in sync with a
// durable kv.Slot.
//
// The whole collection is the unit of persistence: every mutation rewrites the
// full JSON document under a single key. Reads that fail or return corrupt
// content degrade to an empty collection. Write failures are logged, reported
// to subscribers as EventPersistFailed and returned wrapped in ErrPersistFailed,
// while the in-memory collection stays authoritative for the session.
//
// When the slot also implements kv.Watcher, the store reloads itself whenever
// another writer replaces the document and broadcasts EventReloaded. Writes
// made by the store itself are recognised by content and ignored.
//
//	st, err := store.New(ctx, kv.NewMemory(), store.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rec, err := st.Add(ctx, subscription.FormData{
//	    ServiceName:      "Netflix",
//	    StartDate:        "2024-01-01",
//	    EndDate:          "2024-02-01",
//	    SubscriptionType: subscription.CadenceMonthly,
//	})
package store
