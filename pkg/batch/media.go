package batch

import (
	"context"

	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/logging"
	"github.com/tracefold/graphpub/pkg/resolver"
)

// uploadMedia uploads every distinct cover URL referenced by a creatable
// entity, once per URL, and returns the url→media-id mapping. This is the
// only phase that performs network calls; everything else is a pure
// transform over resolved state. A failed upload drops the cover with a
// warning rather than failing the batch.
func (b *builder) uploadMedia(ctx context.Context, m *resolver.Map, out *OperationsBatch) map[string]graph.ID {
	logger := logging.FromContext(ctx)
	media := make(map[string]graph.ID)

	if b.uploader == nil {
		return media
	}

	for _, e := range m.Entities() {
		if !e.Resolution.IsCreate() || len(e.TypeIDs) == 0 {
			continue
		}
		url := e.Decl.CoverURL
		if url == "" {
			continue
		}
		if _, done := media[url]; done {
			// Same URL referenced by multiple entities is uploaded once;
			// the media id is shared.
			continue
		}

		id, err := b.uploader.Upload(ctx, url)
		if err != nil {
			out.Warnings = append(out.Warnings, Warning{
				Kind:    WarningMediaUpload,
				Entity:  e.Name,
				Message: "cover upload failed: " + err.Error(),
			})
			logger.Warn().Err(err).Str("url", url).Msg("Cover upload failed")
			// Remember the failure so other entities sharing the URL do
			// not retry it within this batch.
			media[url] = ""
			continue
		}
		media[url] = id
		out.Summary.MediaUploaded++
	}
	return media
}
