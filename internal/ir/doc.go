// Package ir defines the unified tree that foreign syntax trees are lowered
// into. Statements and expressions own their children through their Data
// payloads; every node also carries a non-owning Parent link that is set by
// Attach once the parent exists.
package ir
