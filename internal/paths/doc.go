// Package paths resolves standard filesystem locations for the prehook CLI.
//
// It wraps github.com/adrg/xdg so cache and config locations follow platform
// conventions (XDG on Linux, Library directories on macOS, LOCALAPPDATA on
// Windows), and adds helpers for the locations prehook itself owns: the hook
// repository cache and the per-project configuration file.
package paths
