package jobs

import (
	"context"

	"github.com/yusukebe/url-shortener/pkg/background"
	"github.com/yusukebe/url-shortener/storage"
)

func FlushStore(store storage.LinkStore) background.Job {
	return background.NewJob("flush link store", func(ctx context.Context) error {
		return store.Flush(ctx)
	})
}
