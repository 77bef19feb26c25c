package install

// DataDirPlaceholder is the default data directory embedded in each script.
// Install rewrites it to the resolved directory.
const DataDirPlaceholder = "AI_LOGGER_DIR:-$HOME/.ai-logger"

// PostToolScript is invoked by the host after every tool call. The host
// passes the call as JSON on stdin.
const PostToolScript = `#!/usr/bin/env bash
# ai-logger post-tool hook, auto-generated by "ailog install", do not edit manually.
export AI_LOGGER_DIR="${AI_LOGGER_DIR:-$HOME/.ai-logger}"
exec "${AILOG_BIN:-ailog}" hook post-tool-use
`

// SessionEndScript is invoked by the host when a session ends.
const SessionEndScript = `#!/usr/bin/env bash
# ai-logger session-end hook, auto-generated by "ailog install", do not edit manually.
export AI_LOGGER_DIR="${AI_LOGGER_DIR:-$HOME/.ai-logger}"
exec "${AILOG_BIN:-ailog}" hook session-end
`

// Script is one trigger script and the hook point it is registered under.
type Script struct {
	Name    string
	Event   string
	Matcher string
	Content string
}

// Scripts lists the trigger scripts in installation order.
var Scripts = []Script{
	{Name: "post-tool-logger.sh", Event: "PostToolUse", Matcher: "*", Content: PostToolScript},
	{Name: "session-end.sh", Event: "SessionEnd", Matcher: "", Content: SessionEndScript},
}
