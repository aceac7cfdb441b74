// Package provision implements C3's five toolchain provisioner variants:
// one tool.Tool implementation per language family, each bringing a hook's
// runtime to an installed state from nothing but a hook id, entry point,
// and pinned version.
package provision

import "github.com/rustyhook/rustyhook/tool"

// SetupContext is tool.SetupContext, aliased so every provisioner file in
// this package can refer to it unqualified.
type SetupContext = tool.SetupContext
