package cast

import (
	"fmt"
	"os"
	"strings"

	"shockcore/chunk"
	"shockcore/host"
)

// Loader is the cast package's narrower view of host.ByteLoader plus a
// local-file fallback, used by the sequential HTTPS->HTTP->file fetch.
type Loader interface {
	host.ByteLoader
}

type fetcher struct {
	loader Loader
}

func newFetcher(l Loader) *fetcher {
	return &fetcher{loader: l}
}

// fetchAndAdopt tries HTTPS, then HTTP, then a local file, synchronously
// and without retries. On success the fetched bytes are
// parsed as a movie file and the first inner cast is adopted.
func (f *fetcher) fetchAndAdopt(fileName, inferredName string) (*chunk.Movie, *chunk.CastEntry, error) {
	name := fileName
	if name == "" {
		name = inferredName
	}
	if name == "" {
		return nil, nil, fmt.Errorf("cast: no file name to fetch")
	}

	candidates := fetchCandidates(name)
	var lastErr error
	for _, url := range candidates {
		data, err := f.tryOne(url)
		if err != nil {
			lastErr = err
			continue
		}
		return adoptFirstCast(data)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("cast: no transport available for %q", name)
	}
	return nil, nil, lastErr
}

func (f *fetcher) tryOne(url string) ([]byte, error) {
	if strings.HasPrefix(url, "file://") {
		return os.ReadFile(strings.TrimPrefix(url, "file://"))
	}
	if f.loader == nil {
		return nil, fmt.Errorf("cast: no byte loader configured")
	}
	return f.loader.TryFetch(url)
}

// fetchCandidates builds the HTTPS -> HTTP -> local-file attempt order
// from a bare file name or an already-qualified URL.
func fetchCandidates(name string) []string {
	if strings.HasPrefix(name, "https://") || strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "file://") {
		return []string{name}
	}
	return []string{
		"https://" + name,
		"http://" + name,
		"file://" + name,
	}
}

// adoptFirstCast parses a fetched movie blob and returns its first inner
// cast's decoded movie plus CAS* entry. The raw-chunk split itself is the
// out-of-scope binary parser's job; this function assumes raws has already
// been produced by it and simply re-decodes via chunk.Decode for reuse by
// callers that hand in a fully parsed movie.
func adoptFirstCast(data []byte) (*chunk.Movie, *chunk.CastEntry, error) {
	raws, err := chunk.SplitRawChunks(data)
	if err != nil {
		return nil, nil, err
	}
	m := chunk.Decode(raws)
	if m.CastList == nil || len(m.CastList.Entries) == 0 {
		return m, nil, nil
	}
	first := m.CastList.Entries[0]
	entry := m.CastEntry[first.CasID]
	return m, entry, nil
}
