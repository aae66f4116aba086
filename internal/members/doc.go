// Package members resolves free-form member identifiers to ClickUp user IDs.
//
// Callers may refer to people by numeric ID, username, email address or any
// fragment of those. Resolve applies a fixed policy per identifier:
//
//  1. A base-10 integer is accepted as an ID without consulting the roster.
//  2. Otherwise the first member whose username or email equals the identifier
//     (case-insensitive), or whose decimal ID equals it verbatim, wins.
//  3. Otherwise the first member whose username or email contains the
//     identifier (case-insensitive) wins.
//  4. Anything left over is dropped and reported as unresolved.
//
// The policy functions are pure and operate on a Roster snapshot. Service adds
// the network fetch on top, pulling the roster from a Directory at most once
// per call.
package members
