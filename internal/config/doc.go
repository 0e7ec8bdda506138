// Package config loads the parser and table configuration for perov.
//
// A Config names the molecule tokens added to the periodic table, the
// placeholder alphabet for symbolic coefficients, the A/B/X site table, the
// formula column read from frames, and the builder worker count. Fields
// left unset take the values from Default.
//
// Load picks a decoder from the file extension:
//
//	.yaml, .yml   gopkg.in/yaml.v3 (unknown fields rejected)
//	.toml         github.com/BurntSushi/toml (undecoded keys rejected)
//	.cue          cuelang.org/go, unified with a closed #Config schema
//
// All validation failures are reported as *Error.
package config
