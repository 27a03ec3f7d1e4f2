package filter

import (
	"strings"

	"weeklyschedule/internal/config"
	"weeklyschedule/internal/textutil"
	"weeklyschedule/internal/tvmaze"
)

// Exclusion reasons, in evaluation order.
const (
	ReasonSports                  = "sports"
	ReasonNews                    = "news"
	ReasonForeign                 = "foreign"
	ReasonBlockedChannel          = "blocked_channel"
	ReasonBlockedChannelSubstring = "blocked_channel_substring"
)

const (
	typeSports   = "sports"
	typeNews     = "news"
	typeTalkShow = "talk show"
)

// Policy holds the folded rule sets.
type Policy struct {
	allowedCountries  map[string]struct{}
	blockedChannels   map[string]struct{}
	blockedSubstrings []string
	exemptPanel       bool
	exemptGenres      map[string]struct{}
}

// NewPolicy builds a policy from configuration.
func NewPolicy(cfg config.Filter) *Policy {
	allowed := make(map[string]struct{}, len(cfg.AllowedCountries))
	for _, code := range cfg.AllowedCountries {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			allowed[code] = struct{}{}
		}
	}
	substrings := make([]string, 0, len(cfg.BlockedChannelSubstrings))
	for _, s := range cfg.BlockedChannelSubstrings {
		if s = strings.TrimSpace(s); s != "" {
			substrings = append(substrings, s)
		}
	}
	return &Policy{
		allowedCountries:  allowed,
		blockedChannels:   textutil.FoldSet(cfg.BlockedChannels),
		blockedSubstrings: substrings,
		exemptPanel:       cfg.ExemptPanelGenres,
		exemptGenres:      textutil.FoldSet(cfg.ExemptGenres),
	}
}

// IsExcluded reports whether show must be left out of the catalog.
func (p *Policy) IsExcluded(show tvmaze.Show) bool {
	return p.Reason(show) != ""
}

// Reason returns the name of the first exclusion rule show matches, or "".
func (p *Policy) Reason(show tvmaze.Show) string {
	showType := textutil.Fold(show.Type)
	switch {
	case p.isSports(showType, show.Genres):
		return ReasonSports
	case (showType == typeNews || showType == typeTalkShow) && !p.isExempt(show.Genres):
		return ReasonNews
	case p.isForeign(show):
		return ReasonForeign
	}

	channel := textutil.Fold(show.WebChannel.ChannelName())
	if channel == "" {
		return ""
	}
	if _, blocked := p.blockedChannels[channel]; blocked {
		return ReasonBlockedChannel
	}
	for _, needle := range p.blockedSubstrings {
		if textutil.ContainsFold(channel, needle) {
			return ReasonBlockedChannelSubstring
		}
	}
	return ""
}

func (p *Policy) isSports(showType string, genres []string) bool {
	if showType == typeSports {
		return true
	}
	for _, genre := range genres {
		if textutil.EqualFold(genre, typeSports) {
			return true
		}
	}
	return false
}

func (p *Policy) isExempt(genres []string) bool {
	if !p.exemptPanel {
		return false
	}
	for _, genre := range genres {
		if _, ok := p.exemptGenres[textutil.Fold(genre)]; ok {
			return true
		}
	}
	return false
}

// isForeign treats a missing country code as domestic so web-only shows
// without an origin are kept.
func (p *Policy) isForeign(show tvmaze.Show) bool {
	code := strings.ToUpper(show.CountryCode())
	if code == "" {
		return false
	}
	_, ok := p.allowedCountries[code]
	return !ok
}
