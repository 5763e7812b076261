// Package mapping holds the shared vocabulary between the query front end
// and the execution layers: target engine tags and optimizer hint flags.
// Both are part of the binary metadata format, so values are fixed.
package mapping

// Engine selects the backend family a query should execute on.
type Engine uint8

const (
	// EngineAuto lets the executor choose.
	EngineAuto Engine = 0
	// EngineRelational targets SQL backends (PostgreSQL, MySQL).
	EngineRelational Engine = 1
	// EngineDocument targets document backends (MongoDB).
	EngineDocument Engine = 2
)

func (e Engine) String() string {
	switch e {
	case EngineAuto:
		return "auto"
	case EngineRelational:
		return "relational"
	case EngineDocument:
		return "document"
	}
	return "unknown"
}

// ParseEngine resolves an engine name as accepted on the command line.
func ParseEngine(name string) (Engine, bool) {
	switch name {
	case "auto":
		return EngineAuto, true
	case "relational", "sql":
		return EngineRelational, true
	case "document", "nosql":
		return EngineDocument, true
	}
	return EngineAuto, false
}
