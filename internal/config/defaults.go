package config

const (
	defaultInputDir         = "./Audio"
	defaultSubtitleDir      = "./Script"
	defaultTextDir          = "./Clean_Text"
	defaultLogDir           = "~/.local/share/scribe/logs"
	defaultStateDir         = "~/.local/share/scribe"
	defaultWorkDir          = "~/.cache/scribe/work"
	defaultChunkSizeSeconds = 720.0
	defaultTargetSampleRate = 16000
	defaultWorkers          = 1
	defaultEngineKind       = EngineHTTP
	defaultEngineURL        = "http://127.0.0.1:8387"
	defaultEngineModel      = "nvidia/parakeet-tdt-0.6b-v2"
	defaultDecoder          = DecoderAuto
	defaultFFmpegBinary     = "ffmpeg"
	defaultNtfyTimeout      = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	engineURLEnv            = "SCRIBE_ENGINE_URL"
)

// Engine kinds.
const (
	EngineHTTP    = "http"
	EngineCommand = "command"
)

// Decoder kinds.
const (
	DecoderAuto   = "auto"
	DecoderFFmpeg = "ffmpeg"
	DecoderWAV    = "wav"
)

// InputPlaceholder is substituted with the chunk WAV path in engine.args.
const InputPlaceholder = "{input}"

var defaultExtensions = []string{"wav", "mp3", "flac", "m4a", "mp4", "ogg", "opus", "webm"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	exts := make([]string, len(defaultExtensions))
	copy(exts, defaultExtensions)
	return Config{
		Paths: Paths{
			InputDir:    defaultInputDir,
			SubtitleDir: defaultSubtitleDir,
			TextDir:     defaultTextDir,
			LogDir:      defaultLogDir,
			StateDir:    defaultStateDir,
			WorkDir:     defaultWorkDir,
		},
		Transcription: Transcription{
			ChunkSizeSeconds: defaultChunkSizeSeconds,
			TargetSampleRate: defaultTargetSampleRate,
			WriteText:        true,
			Workers:          defaultWorkers,
			Extensions:       exts,
		},
		Engine: Engine{
			Kind:  defaultEngineKind,
			URL:   defaultEngineURL,
			Model: defaultEngineModel,
		},
		Audio: Audio{
			Decoder:      defaultDecoder,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
