package config

const (
	defaultOutputDir           = "~/mediaforge/output"
	defaultLogDir              = "~/.local/share/mediaforge/logs"
	defaultStateDir            = "~/.local/share/mediaforge"
	defaultFFmpeg              = "ffmpeg"
	defaultFFprobe             = "ffprobe"
	defaultImageInterpreter    = "python3"
	defaultXvfb                = "Xvfb"
	defaultProbeTimeout        = 30
	defaultVideoCodec          = "libx264"
	defaultVideoPreset         = "medium"
	defaultVideoCRF            = 23
	defaultCompressCRF         = 28
	defaultCompressPreset      = "slow"
	defaultTranscodeTimeout    = 300
	defaultCompressTimeout     = 600
	defaultFramesTimeout       = 120
	defaultExtractAudioTimeout = 60
	defaultDisplay             = ":99"
	defaultScreen              = "1024x768x24"
	defaultImageTimeout        = 60
	defaultJPEGQuality         = 92
	defaultWebPQuality         = 90
	defaultWorkers             = 1
	defaultPresetName          = "web"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultNtfyTimeout         = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Tools: Tools{
			FFmpeg:           defaultFFmpeg,
			FFprobe:          defaultFFprobe,
			ImageInterpreter: defaultImageInterpreter,
			Xvfb:             defaultXvfb,
		},
		Probe: Probe{TimeoutSeconds: defaultProbeTimeout},
		Video: Video{
			Codec:                      defaultVideoCodec,
			Preset:                     defaultVideoPreset,
			CRF:                        defaultVideoCRF,
			CompressCRF:                defaultCompressCRF,
			CompressPreset:             defaultCompressPreset,
			TimeoutSeconds:             defaultTranscodeTimeout,
			CompressTimeoutSeconds:     defaultCompressTimeout,
			FramesTimeoutSeconds:       defaultFramesTimeout,
			ExtractAudioTimeoutSeconds: defaultExtractAudioTimeout,
		},
		Image: Image{
			PrimaryEnabled: true,
			Display:        defaultDisplay,
			Screen:         defaultScreen,
			TimeoutSeconds: defaultImageTimeout,
			BridgePaths: []string{
				"/usr/lib/gimp/2.0/python",
				"/usr/lib/python3/dist-packages",
			},
			FallbackJPEGQuality: defaultJPEGQuality,
			WebPQuality:         defaultWebPQuality,
		},
		Batch: Batch{
			Workers:       defaultWorkers,
			DefaultPreset: defaultPresetName,
			RecordHistory: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
	}
}
