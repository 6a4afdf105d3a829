// Package lua runs Lua plugins on gopher-lua against the extension
// facade.
//
// Each plugin gets a sandboxed State: only the base, string, table and
// math libraries are open, require hands out nothing but those and the
// vim module, and print goes to the message line. A chunk or callback
// that runs past the execution timeout is stopped.
//
// The vim module:
//
//	vim.map(modes, lhs, rhs, opts)        -- rhs is keys or a function; opts.remap
//	vim.unmap(modes, lhs)                 -- true when something was removed
//	vim.command(modes, keys, fn, opts)    -- opts.operator, opts.motion, opts.async, opts.repeatable
//	vim.operatorfunc(name, fn)            -- fn(kind) for g@
//	vim.normal(keys, remap)
//	vim.eval(expr)                        -- Vimscript, result as a string
//	vim.echo(...)
//	vim.buf.text() .line(n) .line_count() .cursor()
//	vim.buf.set_cursor(off) .insert(off, text) .delete(s, e) .replace(s, e, text)
//
// Modes are map command letters: "" for :map, "n", "x", "nv", "i", "!".
//
// Capabilities gate the parts of the module that change state:
//
//	host.LoadWith("reader", src, lua.CapabilityExecute)
//
// Host.LoadFS loads a plugin directory. A plugin.json manifest names the
// entry file, the plugins to load first and the capabilities to grant;
// plugins without one get every capability.
//
// Everything a plugin registers is owned by it. Host.Unload removes those
// commands, mappings and operator functions and nothing else.
package lua
