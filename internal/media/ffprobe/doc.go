// Package ffprobe inspects media files and reduces ffprobe's JSON report to
// the MediaInfo the pipeline parameterizes commands with.
//
// Only the first video and first audio stream are surfaced. A file with no
// streams, a non-zero exit, unparseable output, or an overrun deadline all
// fail with services.ErrProbeFailure.
package ffprobe
