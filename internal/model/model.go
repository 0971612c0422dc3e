package model

// Package model contains the domain entities of the data room hierarchy.
// These are pure structs with no database-specific dependencies or tags;
// they can be used across layers (HTTP, service, storage) without coupling
// to persistence.
