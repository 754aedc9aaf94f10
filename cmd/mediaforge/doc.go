// Command mediaforge applies declarative media transformations to batches of
// video and image files.
//
// Common invocations:
//
//	mediaforge run --preset social clips/*.mp4 photos/*.jpg
//	mediaforge run --tag resize_720p --tag compress --prop target_size_mb=8 talk.mov
//	mediaforge resolve --preset web photo.png
//	mediaforge watch ~/inbox --preset mobile
//	mediaforge history list
package main
