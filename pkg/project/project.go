package project

// Name is reported to language servers and MCP clients
const Name = "tabserver"

// Version is the current release of tabserver
const Version = "0.1.0"
