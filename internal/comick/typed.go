// internal/comick/typed.go
//
// Typed views over the raw fetches. The round controller works with these;
// the proxy routes use the Raw variants so bodies pass through unchanged.

package comick

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/robalobadob/comicguess/internal/comic"
)

// DefaultImageBaseURL serves chapter page images by b2key.
const DefaultImageBaseURL = "https://meo.comick.pictures"

// List fetches and decodes one listing page. The upstream sends either a
// bare array or {"data": [...]}.
func (c *Client) List(ctx context.Context, limit, page int) ([]comic.Comic, error) {
	body, err := c.ListRaw(ctx, limit, page)
	if err != nil {
		return nil, err
	}
	return decodeList(body)
}

func decodeList(body json.RawMessage) ([]comic.Comic, error) {
	var out []comic.Comic
	if bytes.HasPrefix(body, []byte("[")) {
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("comick: decode list: %w", err)
		}
		return out, nil
	}
	var wrapped struct {
		Data []comic.Comic `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("comick: decode list: %w", err)
	}
	return wrapped.Data, nil
}

// Comic fetches and decodes the detail of slug.
func (c *Client) Comic(ctx context.Context, slug string) (comic.Detail, error) {
	var d comic.Detail
	body, err := c.ComicRaw(ctx, slug)
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(body, &d); err != nil {
		return d, fmt.Errorf("comick: decode comic %s: %w", slug, err)
	}
	return d, nil
}

// Chapters fetches and decodes the chapter list of the comic hid.
func (c *Client) Chapters(ctx context.Context, hid string, limit int) ([]comic.Chapter, error) {
	body, err := c.ChaptersRaw(ctx, hid, limit)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(body, []byte("[")) {
		var list []comic.Chapter
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("comick: decode chapters: %w", err)
		}
		return list, nil
	}
	var cl comic.ChapterList
	if err := json.Unmarshal(body, &cl); err != nil {
		return nil, fmt.Errorf("comick: decode chapters: %w", err)
	}
	return cl.Chapters, nil
}

// Images fetches and decodes the page images of chapter hid.
func (c *Client) Images(ctx context.Context, hid string) ([]comic.Image, error) {
	body, err := c.ImagesRaw(ctx, hid)
	if err != nil {
		return nil, err
	}
	var out []comic.Image
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("comick: decode images: %w", err)
	}
	return out, nil
}

// Genres fetches and decodes the genre list.
func (c *Client) Genres(ctx context.Context) ([]comic.Genre, error) {
	body, err := c.GenresRaw(ctx)
	if err != nil {
		return nil, err
	}
	var out []comic.Genre
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("comick: decode genres: %w", err)
	}
	return out, nil
}

// ImageURL joins base and the image's b2key.
func ImageURL(base string, img comic.Image) string {
	if base == "" {
		base = DefaultImageBaseURL
	}
	return base + "/" + img.B2Key
}
