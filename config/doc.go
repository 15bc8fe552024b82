// Package config loads keep-alive cache settings from the environment, an
// optional .env file, or a YAML file.
//
// Environment variables:
//
//	KEEPALIVE_INCLUDE  names to keep alive ("A,B" or "/regexp/")
//	KEEPALIVE_EXCLUDE  names never kept alive (same syntax)
//	KEEPALIVE_MAX      capacity bound; empty, invalid or non-positive means unbounded
//
// YAML file:
//
//	include: [Inbox, Settings]
//	exclude: "/^Modal/"
//	max: 10
//
// Malformed patterns and bounds degrade to "absent" rather than failing, so
// a typo in configuration never disables rendering. Files that cannot be read
// or decoded do fail, wrapped in ErrReadingFile.
package config
