package gnio

import (
	"os"

	"github.com/rs/zerolog"
)

type options struct {
	log          zerolog.Logger
	perm         os.FileMode
	transferSize int
}

func defaultOptions() options {
	return options{
		log:          zerolog.Nop(),
		perm:         DefaultPerm,
		transferSize: TransferSize,
	}
}

// Option configures a Channel at Open time.
type Option func(*options)

// WithLogger sets the logger used for channel lifecycle and transfer
// diagnostics. Channels are silent by default.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithPerm sets the permission bits of files created by Open.
func WithPerm(perm os.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// WithTransferSize sets the intermediate buffer size of the buffered
// transfer path. Non-positive sizes are ignored.
func WithTransferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.transferSize = n
		}
	}
}
