// Package config loads and normalizes the sheaf configuration file.
//
// The configuration lives next to the files being organized (sheaf.toml by
// default). A missing or unparseable file never fails a run: Load always
// returns a usable configuration, substituting defaults and reporting a
// diagnostic for anything it had to recover from.
package config
