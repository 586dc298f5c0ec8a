package gateway

// Result is the Dispatcher's transport-agnostic outcome for a successful
// tool call, mapped onto the MCP result shape `{content, isError, metadata}`
// (spec.md §6) by the mcpserver package. Dispatch returns a non-nil error
// (always an *apperr.GatewayError) instead of a Result for every failure
// path; callers decide, by error code, whether that becomes a protocol
// error or an isError=true result.
type Result struct {
	Text     string
	Metadata map[string]interface{}
}
