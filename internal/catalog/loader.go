package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/errs"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/remote"
)

// Fetcher is the catalog half of remote.Client.
type Fetcher interface {
	FetchCatalog(ctx context.Context) remote.Result[[]models.CatalogItem]
}

// Loader refreshes a Selection from the remote catalog.
type Loader struct {
	fetcher   Fetcher
	selection *Selection
	log       zerolog.Logger
}

func NewLoader(fetcher Fetcher, selection *Selection, log zerolog.Logger) *Loader {
	return &Loader{
		fetcher:   fetcher,
		selection: selection,
		log:       log.With().Str("component", "catalog").Logger(),
	}
}

// Refresh fetches the catalog and loads it. On failure the previously loaded
// catalog stays in place.
func (l *Loader) Refresh(ctx context.Context) error {
	res := l.fetcher.FetchCatalog(ctx)
	if !res.Success {
		l.log.Warn().Err(res.Error).Msg("catalog fetch failed, keeping previous catalog")
		return errs.Remote("Could not load workflows. Please try again.", res.Error)
	}

	l.selection.Load(res.Data)
	l.log.Debug().Int("items", len(res.Data)).Msg("catalog loaded")
	return nil
}
