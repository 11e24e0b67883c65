// Package taste turns per-track annotations into a TasteProfile.
//
// Raw annotations are cleaned by Normalize, folded per dimension into
// weighted votes, composed into an overall confidence, and matched against
// a RuleSet to derive listening intents. Nothing here performs I/O.
package taste
