package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/mkvchapters/internal/config"
	"github.com/listenupapp/mkvchapters/internal/logger"
	"github.com/listenupapp/mkvchapters/internal/mkvtoolnix"
	"github.com/listenupapp/mkvchapters/internal/service"
	"github.com/listenupapp/mkvchapters/internal/validation"
)

// ProvideRunner provides the process runner used by the toolchain.
func ProvideRunner(i do.Injector) (mkvtoolnix.Runner, error) {
	return mkvtoolnix.ExecRunner{}, nil
}

// ProvideToolchain provides the mkvextract/mkvpropedit driver.
func ProvideToolchain(i do.Injector) (*mkvtoolnix.Toolchain, error) {
	cfg := do.MustInvoke[*config.Config](i)
	runner := do.MustInvoke[mkvtoolnix.Runner](i)
	log := do.MustInvoke[*logger.Logger](i)

	return mkvtoolnix.New(cfg.Tools, runner, log.Logger), nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideChapterService provides the chapter service.
func ProvideChapterService(i do.Injector) (*service.ChapterService, error) {
	toolchain := do.MustInvoke[*mkvtoolnix.Toolchain](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewChapterService(toolchain, validator, log.Logger), nil
}
