// Package encoding renders video filter chains into ffmpeg command lines and
// runs them.
//
// TargetBitrate derives an encoder bitrate from a requested output size and
// the probed source duration. Executor builds one transcode per job: video
// stages join into a single -vf expression, audio stages into -af (or -an when
// audio is dropped), and either a fixed CRF or a bitrate/maxrate/bufsize
// triple controls quality. The package also carries the two auxiliary ffmpeg
// jobs the CLI exposes: assembling an image sequence into a video and copying
// the audio track out of a video.
package encoding
