/*
Package config loads the list of files to patch and the changes to apply.

	            +-------------+
	            |   Config    |
	            | (patches)   |
	            +------+------+
	                   |
	  +--------+-------+-------+--------+
	  |        |               |        |
	+-+--+  +--+---+       +---+--+  +--+--+
	|TOML|  | YAML |       | JSON |  | HCL |
	+----+  +------+       +------+  +-----+

🎯 Purpose:
- Reads the config file, picking a parser by extension
- Validates that every patch names a file and has changes
- Resolves file entries (plain paths or doublestar globs) to absolute paths

📝 Shape (TOML):

	[[patch]]
	file = "src/version.go"

	[[patch.change]]
	search = 'Version = "[^"]*"'
	replace = 'Version = "@gitrev"'
	word = false

Changes are whole-word regular expressions unless regex or word is set to
false. Replacement text is not interpreted here; placeholder tokens such as
@date are expanded by the caller.
*/
package config
