// Package canbits models the CAN and CAN FD bus protocol at sub-bit time
// resolution.
//
// It includes:
//   - A Frame type with validated setters for identifier, DLC, data and flags
//   - A BitFrame holding the ordered bits of one frame, each bit split into
//     time quanta and clock cycles, with bit stuffing and CRC-15/17/21
//   - Mutation helpers that emulate error frames, overload frames, lost
//     arbitration and resynchronization artifacts
//   - A flattened Trace of (value, cycles) segments, an in-memory loopback
//     transport for tests and a slog decorator for transports
package canbits
