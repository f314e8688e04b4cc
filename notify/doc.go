// Package notify provides best-effort fan-out of data-change events.
//
// A Broadcaster delivers Events to subscriber channels without blocking;
// subscribers that cannot keep up miss events rather than slowing down
// writers. This mirrors the live-update feed a UI layer would consume and
// deliberately offers no stronger guarantee.
//
//	events, cancel := broadcaster.Subscribe(16)
//	defer cancel()
//	for event := range events {
//	    // react to inserts/updates/deletes
//	}
package notify
