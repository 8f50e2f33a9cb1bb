// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the panel state with call timeouts
// and a guard that detects other running instances of a binary.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
