package codemend

// Version is the semantic version reported by the CLI and MCP handshake.
const Version = "0.1.0"
