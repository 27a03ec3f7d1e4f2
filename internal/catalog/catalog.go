package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"weeklyschedule/internal/fileutil"
	"weeklyschedule/internal/textutil"
	"weeklyschedule/internal/tvmaze"
	"weeklyschedule/internal/window"
)

// TypeSeries is the only meta type emitted.
const TypeSeries = "series"

// Video is one episode entry of a meta.
type Video struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Season   int    `json:"season"`
	Episode  *int   `json:"episode"`
	Released string `json:"released"`
	Overview string `json:"overview"`
}

// Meta is one series entry of the catalog.
type Meta struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Poster      *string `json:"poster"`
	Background  *string `json:"background"`
	Videos      []Video `json:"videos"`
}

// LatestRelease returns the most recent video release date, or "".
func (m Meta) LatestRelease() string {
	latest := ""
	for _, v := range m.Videos {
		if v.Released > latest {
			latest = v.Released
		}
	}
	return latest
}

// Catalog is the serialized document.
type Catalog struct {
	Metas []Meta `json:"metas"`
}

// videoKey identifies a video for de-duplication. An unnumbered episode's
// internal id never aliases a real episode number.
type videoKey struct {
	id         string
	unnumbered bool
}

// BuildMeta assembles the meta for show under the canonical id from its
// windowed episodes. Videos are de-duplicated by video id, keeping the first
// occurrence. It returns false when no video remains.
func BuildMeta(id string, show tvmaze.Show, windowed []tvmaze.Episode) (Meta, bool) {
	videos := make([]Video, 0, len(windowed))
	seen := make(map[videoKey]struct{}, len(windowed))
	for _, ep := range windowed {
		released, ok := window.EffectiveDate(ep)
		if !ok {
			continue
		}
		video := Video{
			ID:       VideoID(id, ep),
			Title:    ep.Name,
			Season:   ep.Season,
			Episode:  ep.Number,
			Released: released.Format(tvmaze.DateLayout),
			Overview: textutil.StripHTML(ep.Summary),
		}
		key := videoKey{id: video.ID, unnumbered: ep.Number == nil}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		videos = append(videos, video)
	}
	if len(videos) == 0 {
		return Meta{}, false
	}
	SortVideos(videos)

	return Meta{
		ID:          id,
		Type:        TypeSeries,
		Name:        show.Name,
		Description: textutil.StripHTML(show.Summary),
		Poster:      pickImage(show.Image),
		Background:  pickImage(show.Image),
		Videos:      videos,
	}, true
}

// VideoID builds "<id>:<season>:<episode>", using the internal episode id
// when the episode number is unknown.
func VideoID(id string, ep tvmaze.Episode) string {
	number := strconv.FormatInt(ep.ID, 10)
	if ep.Number != nil {
		number = strconv.Itoa(*ep.Number)
	}
	return id + ":" + strconv.Itoa(ep.Season) + ":" + number
}

// pickImage prefers the original resolution, then the medium one.
func pickImage(img *tvmaze.Image) *string {
	if img == nil {
		return nil
	}
	for _, candidate := range []string{img.Original, img.Medium} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return &candidate
		}
	}
	return nil
}

// SortVideos orders videos newest first, then by season and episode
// descending, then by id.
func SortVideos(videos []Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		a, b := videos[i], videos[j]
		if a.Released != b.Released {
			return a.Released > b.Released
		}
		if a.Season != b.Season {
			return a.Season > b.Season
		}
		if ea, eb := episodeOrder(a.Episode), episodeOrder(b.Episode); ea != eb {
			return ea > eb
		}
		return a.ID < b.ID
	})
}

func episodeOrder(n *int) int {
	if n == nil {
		return -1
	}
	return *n
}

// Sort orders metas by most recent release descending, then by name and id.
func Sort(metas []Meta) {
	sort.SliceStable(metas, func(i, j int) bool {
		a, b := metas[i], metas[j]
		if la, lb := a.LatestRelease(), b.LatestRelease(); la != lb {
			return la > lb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// Encode serializes metas as the catalog document, indented two spaces with a
// trailing newline.
func Encode(metas []Meta) ([]byte, error) {
	doc := Catalog{Metas: metas}
	if doc.Metas == nil {
		doc.Metas = []Meta{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Write atomically replaces the artifact at path with data.
func Write(path string, data []byte) error {
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Read loads a catalog document from path.
func Read(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc Catalog
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &doc, nil
}
