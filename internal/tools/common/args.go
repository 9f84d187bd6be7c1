package common

// GetStringArg extracts an optional string argument, returning "" when absent.
func GetStringArg(args map[string]interface{}, name string) string {
	if value, ok := args[name].(string); ok {
		return value
	}
	return ""
}

// GetBoolArg extracts an optional boolean argument with a default.
func GetBoolArg(args map[string]interface{}, name string, defaultValue bool) bool {
	if value, ok := args[name].(bool); ok {
		return value
	}
	return defaultValue
}

// GetIntArg extracts an optional numeric argument with a default.
// JSON numbers arrive as float64; fractional values are truncated.
func GetIntArg(args map[string]interface{}, name string, defaultValue int) int {
	if value, ok := args[name].(float64); ok {
		return int(value)
	}
	return defaultValue
}

// GetSourceFromArgs extracts the Drive file ID a tool call targets, if any.
// Tools accept the ID under "fileId"; batch tools may pass arrays, which are
// not attributed to a single source.
func GetSourceFromArgs(args map[string]interface{}) string {
	return GetStringArg(args, "fileId")
}

// GetFolderFromArgs extracts the Drive folder scope of a tool call, if any.
func GetFolderFromArgs(args map[string]interface{}) string {
	return GetStringArg(args, "folderId")
}
