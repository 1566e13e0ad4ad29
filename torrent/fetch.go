package torrent

import (
	"bytes"
	"context"
	"strings"

	"github.com/anacrolix/torrent/metainfo"

	"stremjack/logging"
	"stremjack/requester"
	"stremjack/schema"
)

// Fetcher resolves a raw record's link into decoded metainfo. A magnet link
// decodes in-process; anything else is fetched as a binary resource through
// the cached requester. Every failure path returns nil, which excludes the
// candidate from further processing; nothing propagates past this boundary.
type Fetcher struct {
	req *requester.Requester
}

func NewFetcher(req *requester.Requester) *Fetcher {
	return &Fetcher{req: req}
}

func (f *Fetcher) Fetch(ctx context.Context, t schema.Torrent) *schema.Metainfo {
	if strings.HasPrefix(t.Link, "magnet:") {
		return fromMagnet(t.Link)
	}

	resp, err := f.req.Get(ctx, t.Link, nil, requester.Options{
		Accept: "application/x-bittorrent, application/octet-stream",
	})
	if err != nil {
		logging.Debug().Err(err).Str("link", t.Link).Msg("Torrent fetch failed")
		return nil
	}
	if !resp.OK() || len(resp.Body) == 0 {
		logging.Debug().Int("status", resp.Status).Str("link", t.Link).Msg("Torrent fetch returned no usable body")
		return nil
	}

	return fromBytes(resp.Body, t.Link)
}

func fromMagnet(uri string) *schema.Metainfo {
	m, err := metainfo.ParseMagnetUri(uri)
	if err != nil {
		logging.Debug().Err(err).Msg("Could not parse magnet URI")
		return nil
	}
	return &schema.Metainfo{
		InfoHash: strings.ToLower(m.InfoHash.HexString()),
		Trackers: m.Trackers,
	}
}

func fromBytes(body []byte, link string) *schema.Metainfo {
	mi, err := metainfo.Load(bytes.NewReader(body))
	if err != nil {
		logging.Debug().Err(err).Str("link", link).Msg("Could not decode torrent metainfo")
		return nil
	}
	info, err := mi.UnmarshalInfo()
	if err != nil {
		logging.Debug().Err(err).Str("link", link).Msg("Could not decode torrent info dictionary")
		return nil
	}

	var trackers []string
	seen := map[string]struct{}{}
	for _, tier := range mi.UpvertedAnnounceList() {
		for _, tracker := range tier {
			if _, dup := seen[tracker]; dup {
				continue
			}
			seen[tracker] = struct{}{}
			trackers = append(trackers, tracker)
		}
	}

	files := make([]schema.FileEntry, 0, len(info.UpvertedFiles()))
	for _, fi := range info.UpvertedFiles() {
		files = append(files, schema.FileEntry{
			Name:   fi.DisplayPath(&info),
			Length: fi.Length,
		})
	}

	return &schema.Metainfo{
		InfoHash: strings.ToLower(mi.HashInfoBytes().HexString()),
		Trackers: trackers,
		Files:    files,
	}
}
