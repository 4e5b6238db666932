// Package ticktick unifies TickTick's two incompatible remote APIs behind
// one client and one canonical entity model.
//
// The documented Open API (openapi package) covers task and project CRUD
// with an OAuth2 bearer token. The undocumented session API (sessionapi
// package) covers everything else: tags, folders, subtask linkage,
// cross-project moves, account statistics and the full sync. Each facade
// operation is statically routed to the backend that can serve it (see
// operationRoutes); a handful of composite reads join both.
//
// The facade validates caller input locally before any network call and
// surfaces every failure through the apierr taxonomy, so callers can match
// errors.Is against the per-kind sentinels regardless of which backend
// produced the failure.
package ticktick
