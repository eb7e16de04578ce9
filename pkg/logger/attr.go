package logger

import "log/slog"

// Error records err under "error". A nil error yields an empty attribute, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RecordID records a subscription id under "record_id".
func RecordID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("record_id", id)
}

// Key records the durable storage key.
func Key(key string) slog.Attr {
	return slog.String("storage_key", key)
}

// Backend records the storage backend name.
func Backend(name string) slog.Attr {
	return slog.String("backend", name)
}

// Count records a collection size.
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Filename records a backup file name.
func Filename(name string) slog.Attr {
	return slog.String("filename", name)
}

// Component records which part of the tracker logged.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the store event being handled.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
