// Package defaults provides embedded copies of static documents: the
// executor agent instructions written alongside generated artifacts, and
// the example files installed by the init subcommand.
package defaults

import _ "embed"

//go:embed agent_instructions.md
var AgentInstructionsMD []byte

//go:embed config.example.yaml
var ConfigYAML []byte

//go:embed project.context.example.json
var ContextJSON []byte
