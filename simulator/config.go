package simulator

import (
	"os"
)

type Options struct {
	parallel   bool
	logEnabled bool
	logDirPath string
}

func defaultOptions() *Options {
	return &Options{
		parallel:   true,
		logEnabled: false,
		logDirPath: os.TempDir(),
	}
}

type SetOption func(options *Options)

func WithOptionParallel(parallel bool) SetOption {
	return func(options *Options) {
		options.parallel = parallel
	}
}

func WithOptionLogEnabled(enabled bool) SetOption {
	return func(options *Options) {
		options.logEnabled = enabled
	}
}

func WithOptionLogPath(logPath string) SetOption {
	return func(options *Options) {
		options.logDirPath = logPath
	}
}
