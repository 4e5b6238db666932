// Package sessionapi is the transport adapter for TickTick's undocumented
// session API (v2), the one the official web client uses. It handles the
// username/password signon, the device-bound session token, and mapping HTTP
// failures onto the shared error taxonomy.
//
// The session API covers everything the documented Open API does not: tags,
// folders, subtask linkage, cross-project moves, account statistics, focus
// data, the trash, and the full account sync. Wire shapes stay raw here;
// normalization into the canonical model happens in the ticktick package.
//
// These endpoints are unversioned in practice and can change without notice,
// so every shape in this package is scoped to the fields the unified client
// actually reads.
package sessionapi
