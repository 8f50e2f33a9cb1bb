// Package snapshot writes and reads alarm snapshots as JSON files.
//
// The FileRepository encodes the snapshot Struct with protojson, the same
// shape the gRPC API serves. Files are exports for inspection and comparison;
// the monitor never restores its model from them.
package snapshot
