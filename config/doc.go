// Package config loads the host tools' serial and addressing settings
// from a YAML file, falling back to defaults that mirror the constants
// hard-coded in the tooling this package replaces. A missing config
// file is not an error: the defaults alone are enough to run.
package config
