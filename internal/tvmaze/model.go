package tvmaze

import (
	"strconv"
	"strings"
)

// Country identifies the home country of a network or web channel.
type Country struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Timezone string `json:"timezone"`
}

// Channel is a broadcast network or a web/streaming channel.
type Channel struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Country *Country `json:"country"`
}

// CountryCode returns the channel's country code, or "" when unknown.
func (c *Channel) CountryCode() string {
	if c == nil || c.Country == nil {
		return ""
	}
	return strings.TrimSpace(c.Country.Code)
}

// ChannelName returns the channel name, or "" for a nil channel.
func (c *Channel) ChannelName() string {
	if c == nil {
		return ""
	}
	return c.Name
}

// Image holds the poster variants TVmaze serves for a show.
type Image struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// Externals carries identifiers of the show in other databases.
type Externals struct {
	TVRage  int64  `json:"tvrage"`
	TheTVDB int64  `json:"thetvdb"`
	IMDb    string `json:"imdb"`
}

// Show is a television series as returned by the schedule endpoints.
type Show struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Language   string    `json:"language"`
	Genres     []string  `json:"genres"`
	Status     string    `json:"status"`
	Premiered  string    `json:"premiered"`
	Summary    string    `json:"summary"`
	Image      *Image    `json:"image"`
	Network    *Channel  `json:"network"`
	WebChannel *Channel  `json:"webChannel"`
	Externals  Externals `json:"externals"`
}

// CountryCode returns the network country code, falling back to the web
// channel's. An empty result means the origin is unknown.
func (s Show) CountryCode() string {
	if code := s.Network.CountryCode(); code != "" {
		return code
	}
	return s.WebChannel.CountryCode()
}

// PremiereYear returns the year component of Premiered, or 0 when absent or
// malformed.
func (s Show) PremiereYear() int {
	premiered := strings.TrimSpace(s.Premiered)
	if len(premiered) < 4 {
		return 0
	}
	year, err := strconv.Atoi(premiered[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

// Embedded holds resources TVmaze inlines into a record.
type Embedded struct {
	Show *Show `json:"show"`
}

// Episode is one scheduled airing.
type Episode struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Season   int      `json:"season"`
	Number   *int     `json:"number"`
	Airdate  string   `json:"airdate"`
	Airtime  string   `json:"airtime"`
	Airstamp string   `json:"airstamp"`
	Runtime  *int     `json:"runtime"`
	Summary  string   `json:"summary"`
	Show     *Show    `json:"show"`
	Embedded Embedded `json:"_embedded"`
}

// LinkedShow returns the show this episode belongs to, whichever field
// carries it, or nil.
func (e Episode) LinkedShow() *Show {
	if e.Show != nil {
		return e.Show
	}
	return e.Embedded.Show
}
