package platform

// Package platform contains OS integration glue: application directories,
// locating the game catalog on disk, and revealing files in the OS file manager.
