package ir

// Version constants for the schema IR and the tool.
const (
	// SpecVersion is the entity spec schema version.
	SpecVersion = "1"

	// ToolVersion is the asof tool version.
	ToolVersion = "0.1.0"
)
