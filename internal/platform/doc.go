package platform

// Package platform contains OS integration glue: filesystem helpers, the
// Downloads folder, revealing or opening exported files, and locating an
// office suite for document rendering.
