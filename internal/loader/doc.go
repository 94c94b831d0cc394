// Package loader reads the files the CLI works with: target descriptor files
// (YAML or HCL), the module catalog and registry extensions.
//
// Loaders only parse and shape input. They never validate a descriptor beyond
// its syntax; that is the resolver's job.
package loader
