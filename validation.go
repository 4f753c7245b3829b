package logx

import (
	"path/filepath"
	"sync"

	smerrors "github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validateOptions(opts *Options) error {
	const op smerrors.Op = "logx.validateOptions"
	if opts == nil {
		return smerrors.New(op).Msg(errMsgNilOptions)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(opts); err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgOptionsInvalid)
	}

	if _, err := parseLevel(opts.Diagnostics.Level); err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgOptionsInvalid)
	}
	if filepath.IsAbs(opts.Diagnostics.RelLogFileDir) {
		return smerrors.New(op).Errorf("%s RelLogFileDir %q", errMsgDiagDirNotRelative, opts.Diagnostics.RelLogFileDir)
	}

	for _, name := range opts.Levels {
		if _, err := ParseLevel(name); err != nil {
			return smerrors.New(op).Err(err).Msg(errMsgOptionsInvalid)
		}
	}

	return nil
}
