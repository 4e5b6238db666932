package ticktick

// Route names which backend serves an operation. The assignment is static:
// it never depends on runtime state, only on what each API can express.
type Route int

const (
	// RouteOpenAPI operations run entirely on the documented Open API.
	RouteOpenAPI Route = iota
	// RouteSession operations run entirely on the session API.
	RouteSession
	// RouteComposite operations consult both backends and join the results.
	RouteComposite
)

// String implements fmt.Stringer.
func (r Route) String() string {
	switch r {
	case RouteOpenAPI:
		return "openapi"
	case RouteSession:
		return "session"
	case RouteComposite:
		return "composite"
	}
	return "unknown"
}

// operationRoutes is the full dispatch table. Every facade operation appears
// here; a missing entry is a programming error caught by the table test.
var operationRoutes = map[string]Route{
	// Task lifecycle lives on the Open API.
	"createTask":   RouteOpenAPI,
	"getTask":      RouteComposite, // trash fallback consults the session API
	"updateTask":   RouteOpenAPI,
	"completeTask": RouteOpenAPI,
	"deleteTask":   RouteOpenAPI,

	// Cross-project moves and subtask linkage only exist on the session API.
	"moveTask":    RouteSession,
	"makeSubtask": RouteComposite, // create on A, link on B

	// Aggregated task reads join both backends.
	"listAllTasks":  RouteComposite,
	"searchTasks":   RouteComposite,
	"getTasksByTag": RouteComposite,

	// Completed and trashed listings are session-only.
	"listCompleted": RouteSession,
	"listTrash":     RouteSession,

	// Project CRUD lives on the Open API; the inbox id comes from the
	// session signon, so listing is composite.
	"listProjects":        RouteComposite,
	"getProject":          RouteOpenAPI,
	"getProjectWithTasks": RouteOpenAPI,
	"createProject":       RouteOpenAPI,
	"updateProject":       RouteOpenAPI,
	"deleteProject":       RouteOpenAPI,

	// Folders, tags, account reads and the full sync are session-only.
	"listFolders":  RouteSession,
	"getFolder":    RouteSession,
	"createFolder": RouteSession,
	"updateFolder": RouteSession,
	"deleteFolder": RouteSession,

	"listTags":  RouteSession,
	"getTag":    RouteSession,
	"createTag": RouteSession,
	"updateTag": RouteSession,
	"deleteTag": RouteSession,
	"renameTag": RouteSession,
	"mergeTags": RouteSession,

	"getUser":           RouteSession,
	"getUserStatus":     RouteSession,
	"getUserStatistics": RouteSession,
	"getFocusSummary":   RouteSession,
	"fullSync":          RouteSession,
}

// RouteFor returns the route for a named operation.
func RouteFor(op string) (Route, bool) {
	r, ok := operationRoutes[op]
	return r, ok
}
