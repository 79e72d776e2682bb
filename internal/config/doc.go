// Package config loads, normalizes, and validates bdindex configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the BDINDEX_CATALOG_PATH
// environment override. The Config type centralizes every knob the CLI and the
// disc scanning packages need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
