// Package resolve maps a show to the canonical identifier used by the catalog.
//
// The chain is: the IMDb id carried by the show, then a TMDB find by TheTVDB
// id, then a TMDB TV search by name and premiere year. TMDB matches are
// namespaced as "tmdb:<id>". A failed lookup is treated as "not found" and
// the chain moves on; ResolveID never returns an error.
package resolve
