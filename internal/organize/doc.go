// Package organize runs the scan/classify/place/log pipeline over one
// flat directory: enumerate candidates, extract a grouping key per file,
// place each file into its key's subfolder, and record every event in the
// action log. A single file's failure never halts the pass.
package organize
