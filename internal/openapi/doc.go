// Package openapi is the transport adapter for TickTick's documented Open
// API (v1). It handles bearer-token authentication, request/response
// exchange, and mapping HTTP failures onto the shared error taxonomy.
//
// The Open API covers task and project CRUD but not tags, folders, focus
// data or statistics; those live on the undocumented session API (see the
// sessionapi package). Wire shapes stay raw here; normalization into the
// canonical model happens in the ticktick package.
package openapi
