// Package kind enumerates target kinds and the packaging, entry point and
// option rules each one implies.
package kind
