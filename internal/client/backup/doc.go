// Package backup exports a user's four collections as a single JSON
// snapshot and restores such snapshots.
//
// Snapshots are written to a Sink: a local directory (FileSink) or an S3
// compatible bucket (S3Sink). Keys look like
//
//	exports/<userId>/<yyyy>/<mm>/<dd>/<uuid>.json
package backup
