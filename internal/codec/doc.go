// Package codec converts alarm snapshots to and from protobuf Struct values,
// the message shape served over gRPC and written to snapshot files.
package codec
