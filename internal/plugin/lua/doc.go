// Package lua runs user formatter plugins written in Lua.
//
// A plugin script defines a global table named formats whose string
// keys are new formatting kinds and whose values are functions from the
// selected text to its replacement:
//
//	formats = {
//	    upper = function(s) return string.upper(s) end,
//	    highlight = function(s) return "==" .. s .. "==" end,
//	}
//
// LoadFormatters runs each script in a sandboxed State and registers
// the kinds with a format.Engine. Only the base, table, string and math
// libraries are available; io, os, package and debug are never opened.
//
// Every call runs under a timeout. A formatter that fails, times out or
// returns something other than a string leaves the selection unchanged.
package lua
