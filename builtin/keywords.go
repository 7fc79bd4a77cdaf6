package builtin

// keywords are the reserved words lowercased by the formatter.
var keywords = map[string]bool{
	"and": true, "array": true, "as": true, "asm": true, "begin": true,
	"case": true, "class": true, "const": true, "constructor": true,
	"destructor": true, "dispinterface": true, "div": true, "do": true,
	"downto": true, "else": true, "end": true, "except": true,
	"exports": true, "file": true, "finalization": true, "finally": true,
	"for": true, "function": true, "goto": true, "if": true,
	"implementation": true, "in": true, "inherited": true,
	"initialization": true, "inline": true, "interface": true, "is": true,
	"label": true, "library": true, "mod": true, "nil": true, "not": true,
	"object": true, "of": true, "or": true, "packed": true,
	"procedure": true, "program": true, "property": true, "raise": true,
	"record": true, "repeat": true, "resourcestring": true, "set": true,
	"shl": true, "shr": true, "string": true, "then": true,
	"threadvar": true, "to": true, "try": true, "type": true, "unit": true,
	"until": true, "uses": true, "var": true, "while": true, "with": true,
	"xor": true,
}
