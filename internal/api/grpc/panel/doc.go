// Package panel implements the gRPC transport for the alarm panel state.
//
// The service alarmpanel.v1.PanelService is described by a hand-written
// grpc.ServiceDesc over protobuf well-known types, so no generated code is
// needed: requests are google.protobuf.Empty and the state is returned as a
// google.protobuf.Struct built by the codec package.
package panel
