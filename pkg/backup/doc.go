// Package backup converts the subscription collection to and from the
// portable backup document and stores backups on a Target.
//
// Export produces a pretty-printed JSON array. Import accepts the same shape
// and fails with a *ValidationError carrying a user-facing message when the
// input is not JSON, is not an array or contains a record with a missing or
// mistyped field. Import is all-or-nothing and never coerces values.
//
// Targets are a local directory (LocalTarget) or an S3 compatible bucket
// (S3Target). Backup and Restore combine them with Export and Import.
package backup
