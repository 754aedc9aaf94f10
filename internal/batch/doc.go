// Package batch runs a list of input files through the operation pipeline.
//
// The Orchestrator validates each input, detects its media kind, resolves the
// intent into a FilterChain, and hands the job to the video or image
// executor. Items run on a bounded worker pool and land in per-index result
// slots, so a BatchResult lists items in input order regardless of completion
// order. A failing item never aborts the batch.
package batch
